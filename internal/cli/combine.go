package cli

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/Davincible/sss/internal/validation"
	"github.com/Davincible/sss/pkg/crypto/mnemonic"
	"github.com/Davincible/sss/pkg/crypto/shamir"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// CombineResult is the JSON form of a reconstructed secret.
type CombineResult struct {
	Hex      string `json:"hex"`
	Text     string `json:"text,omitempty"`
	Mnemonic string `json:"mnemonic,omitempty"`
	Shares   int    `json:"shares"`
}

func newCombineCommand(s *settings) *cobra.Command {
	var (
		inputFile   string
		outputHex   bool
		outputText  bool
		outputWords bool
	)

	cmd := &cobra.Command{
		Use:   "combine [shares...]",
		Short: "Combine shares to recover the secret",
		Long: `Combine shares to recover the original secret.

Shares may be given as arguments, read from a share set file written by
'sss split --output', or entered one per line. Hex and base64 are
detected automatically.

The shares themselves cannot tell whether enough of them were supplied.
Fewer shares than the split threshold produce a wrong secret without an
error. When a share set file is used its recorded threshold is enforced.`,
		Example: `  # Combine shares given on the command line
  sss combine 89ceabf41cb06d040ca85732 a2b0942d532699cc508d0401

  # Combine from a share set file and print only the hex secret
  sss combine --input shares.json --hex

  # Recover a BIP-39 mnemonic that was split with --mnemonic
  sss combine --input shares.json --mnemonic`,
		RunE: func(cmd *cobra.Command, args []string) error {
			shares, set, err := gatherShares(cmd.InOrStdin(), cmd.ErrOrStderr(), inputFile, args)
			if err != nil {
				return err
			}
			defer s.wipeAll(shares)

			if set != nil && set.Threshold > 0 && len(shares) < set.Threshold {
				return fmt.Errorf("share set %s needs %d shares, only %d available", set.ID, set.Threshold, len(shares))
			}

			secret, err := shamir.Combine(shares)
			if err != nil {
				return fmt.Errorf("failed to combine shares: %w", err)
			}
			defer s.wipe(secret)

			slog.Debug("Shares combined", "shares", len(shares), "secret_bytes", len(secret))

			out := cmd.OutOrStdout()

			switch {
			case outputWords:
				words, err := mnemonic.WordsFromSecret(secret)
				if err != nil {
					return fmt.Errorf("secret is not a BIP-39 mnemonic: %w", err)
				}
				fmt.Fprintln(out, words)
				return nil
			case outputHex:
				fmt.Fprintln(out, hex.EncodeToString(secret))
				return nil
			case outputText:
				fmt.Fprintln(out, string(secret))
				return nil
			}

			result := CombineResult{
				Hex:    hex.EncodeToString(secret),
				Shares: len(shares),
			}
			if printable(secret) {
				result.Text = string(secret)
			}
			if validation.ValidateEntropySize(len(secret)) {
				if words, err := mnemonic.WordsFromSecret(secret); err == nil {
					result.Mnemonic = words
				}
			}

			if s.jsonOut {
				return writeJSON(out, result)
			}

			green := color.New(color.FgGreen, color.Bold)
			cyan := color.New(color.FgCyan, color.Bold)
			yellow := color.New(color.FgYellow)

			fmt.Fprintln(out)
			green.Fprintf(out, "✓ Secret reconstructed from %d shares\n", len(shares))
			fmt.Fprintln(out)

			cyan.Fprint(out, "Hex:      ")
			fmt.Fprintln(out, result.Hex)
			if result.Text != "" {
				cyan.Fprint(out, "Text:     ")
				fmt.Fprintln(out, result.Text)
			}
			if result.Mnemonic != "" {
				cyan.Fprint(out, "Mnemonic: ")
				fmt.Fprintln(out, result.Mnemonic)
			}

			if set == nil {
				fmt.Fprintln(out)
				yellow.Fprintln(out, "Note: a wrong result usually means fewer shares than the threshold were given.")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Share set file written by split or refresh")
	cmd.Flags().BoolVar(&outputHex, "hex", false, "Output only as hexadecimal")
	cmd.Flags().BoolVar(&outputText, "text", false, "Output only as text")
	cmd.Flags().BoolVar(&outputWords, "mnemonic", false, "Output as a BIP-39 mnemonic")
	cmd.MarkFlagsMutuallyExclusive("hex", "text", "mnemonic")

	return cmd
}
