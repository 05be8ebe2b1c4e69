package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Davincible/sss/internal/validation"
	"github.com/Davincible/sss/pkg/config"
	"github.com/Davincible/sss/pkg/crypto/mnemonic"
	"github.com/Davincible/sss/pkg/crypto/random"
	"github.com/Davincible/sss/pkg/crypto/shamir"
	"github.com/Davincible/sss/pkg/secure"
	"github.com/Davincible/sss/pkg/shareset"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSplitCommand(s *settings) *cobra.Command {
	var (
		parts        int
		threshold    int
		encoding     string
		useStdin     bool
		fromMnemonic bool
		hexInput     bool
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a secret into multiple shares",
		Long: `Split a secret (text, raw bytes or a BIP-39 mnemonic) into multiple
shares using Shamir's Secret Sharing. The secret can be reconstructed
from any threshold number of shares.

Each share is one byte longer than the secret. Parts and threshold
default to the values in the config file.`,
		Example: `  # Split a mnemonic into 5 shares with threshold 3
  sss split --parts 5 --threshold 3 --mnemonic

  # Split raw data from stdin
  echo "secret data" | sss split --parts 3 --threshold 2 --stdin

  # Split a hex encoded key and save the share set
  echo 00112233445566778899aabbccddeeff | sss split --stdin --hex -o shares.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := config.SplitOptions{Parts: parts, Threshold: threshold, Encoding: encoding}
			s.cfg.ApplyDefaults(&opts)

			if err := validation.ValidateSplitParams(opts.Parts, opts.Threshold); err != nil {
				return err
			}
			if opts.Encoding != config.EncodingHex && opts.Encoding != config.EncodingBase64 {
				return fmt.Errorf("unknown encoding %q, expected hex or base64", opts.Encoding)
			}

			secret, err := readSplitSecret(cmd, useStdin, fromMnemonic, hexInput)
			if err != nil {
				return fmt.Errorf("failed to read secret: %w", err)
			}
			defer s.wipe(secret)

			src := random.Counting(random.Default())
			shares, err := shamir.New(src).Split(secret, opts.Parts, opts.Threshold)
			if err != nil {
				return fmt.Errorf("failed to split secret: %w", err)
			}
			defer s.wipeAll(shares)

			slog.Debug("Secret split",
				"parts", opts.Parts,
				"threshold", opts.Threshold,
				"secret_bytes", len(secret),
				"random_draws", src.Draws())

			set := shareset.New(shares, opts.Threshold)
			out := cmd.OutOrStdout()

			if outputFile != "" {
				if err := set.Save(outputFile); err != nil {
					return fmt.Errorf("failed to save shares: %w", err)
				}
				fmt.Fprintf(out, "Shares saved to %s\n", outputFile)
				return nil
			}

			if s.jsonOut {
				return writeJSON(out, set)
			}

			return outputShareSet(out, set, opts.Encoding, "SHAMIR SECRET SHARES")
		},
	}

	cmd.Flags().IntVarP(&parts, "parts", "n", 0, "Total number of shares to create (default from config)")
	cmd.Flags().IntVarP(&threshold, "threshold", "t", 0, "Minimum shares needed to reconstruct (default from config)")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", "", "Share encoding for text output: hex or base64 (default from config)")
	cmd.Flags().BoolVar(&useStdin, "stdin", false, "Read secret from stdin")
	cmd.Flags().BoolVar(&fromMnemonic, "mnemonic", false, "Input is a BIP-39 mnemonic phrase")
	cmd.Flags().BoolVar(&hexInput, "hex", false, "Input is hex encoded")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the share set to a file")
	cmd.MarkFlagsMutuallyExclusive("mnemonic", "hex")

	return cmd
}

func readSplitSecret(cmd *cobra.Command, useStdin, fromMnemonic, hexInput bool) ([]byte, error) {
	in, prompt := cmd.InOrStdin(), cmd.ErrOrStderr()

	label := "Enter your secret: "
	if fromMnemonic {
		label = "Enter your mnemonic phrase (12-24 words): "
	} else if hexInput {
		label = "Enter your secret (hex): "
	}

	var raw []byte
	var err error
	if useStdin {
		raw, err = readFromStdin(in)
	} else {
		raw, err = readSecretInteractive(in, prompt, label)
	}
	if err != nil {
		return nil, err
	}

	switch {
	case fromMnemonic:
		phrase := validation.SanitizeInput(string(raw))
		secure.ClearBytes(&raw)
		if err := validation.ValidateMnemonic(strings.ToLower(phrase)); err != nil {
			return nil, err
		}
		return mnemonic.SecretFromWords(phrase)

	case hexInput:
		defer secure.Zero(raw)
		text := strings.TrimSpace(string(raw))
		if err := validation.ValidateHex(text); err != nil {
			return nil, err
		}
		return hex.DecodeString(text)

	default:
		return raw, nil
	}
}

func outputShareSet(w io.Writer, set *shareset.ShareSet, encoding, title string) error {
	yellow := color.New(color.FgYellow, color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(w)
	yellow.Fprintf(w, "=== %s ===\n", title)
	fmt.Fprintln(w)

	green.Fprintf(w, "Created %d shares with threshold %d\n", set.Total, set.Threshold)
	fmt.Fprintf(w, "Any %d shares can reconstruct the original secret\n", set.Threshold)
	fmt.Fprintf(w, "Share set %s, generation %d\n\n", set.ID, set.Generation)

	red.Fprintln(w, "⚠️  SECURITY WARNING:")
	fmt.Fprintln(w, "- Store each share in a different secure location")
	fmt.Fprintln(w, "- Never store shares together or electronically")
	fmt.Fprintln(w, "- Combining fewer shares than the threshold yields a wrong secret without an error")
	fmt.Fprintln(w)

	for i, share := range set.Shares {
		cyan.Fprintf(w, "Share %d of %d:\n", i+1, len(set.Shares))
		if encoding == config.EncodingBase64 {
			fmt.Fprintf(w, "  %s\n\n", share.Base64)
		} else {
			fmt.Fprintf(w, "  %s\n\n", share.Hex)
		}
	}

	yellow.Fprintln(w, "=== END OF SHARES ===")
	return nil
}
