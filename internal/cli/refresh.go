package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Davincible/sss/internal/validation"
	"github.com/Davincible/sss/pkg/crypto/random"
	"github.com/Davincible/sss/pkg/crypto/shamir"
	"github.com/Davincible/sss/pkg/shareset"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errExperimental = errors.New("refresh is experimental: pass --experimental or set advanced.enable_experimental in the config")

func newRefreshCommand(s *settings) *cobra.Command {
	var (
		threshold    int
		inputFile    string
		outputFile   string
		destroyInput bool
		experimental bool
	)

	cmd := &cobra.Command{
		Use:   "refresh [shares...]",
		Short: "Re-randomize shares without changing the secret (experimental)",
		Long: `Refresh replaces every share of a set with a new one for the same
secret. Shares keep their x-coordinates, so share 3 of the old set becomes
share 3 of the new set.

Refreshing only helps if ALL old shares are destroyed afterwards: an
attacker holding old shares gains nothing from new ones, and old and new
shares do not combine with each other. Refresh every share together and
pass the threshold that was used for the split.

This command is experimental and must be enabled explicitly.`,
		Example: `  # Refresh a share set file and destroy the old one
  sss refresh --experimental --input shares.json --output shares-2.json --destroy-input

  # Refresh shares given on the command line with threshold 2
  sss refresh --experimental -t 2 <share1> <share2> <share3>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !experimental && !s.cfg.Advanced.EnableExperimental {
				return errExperimental
			}

			destroy := destroyInput || s.cfg.Security.DestroyInputOnRefresh
			if destroy && inputFile == "" {
				return fmt.Errorf("--destroy-input requires --input")
			}
			if destroy && outputFile == "" {
				return fmt.Errorf("--destroy-input requires --output so the refreshed shares are kept")
			}

			shares, set, err := gatherShares(cmd.InOrStdin(), cmd.ErrOrStderr(), inputFile, args)
			if err != nil {
				return err
			}
			defer s.wipeAll(shares)

			if set != nil {
				if threshold == 0 {
					threshold = set.Threshold
				} else if threshold != set.Threshold {
					return fmt.Errorf("threshold %d does not match share set %s, which was split with threshold %d",
						threshold, set.ID, set.Threshold)
				}
			}
			if err := validation.ValidateRefreshThreshold(threshold, len(shares)); err != nil {
				return err
			}

			src := random.Counting(random.Default())
			refreshed, err := shamir.New(src).Refresh(shares, threshold)
			if err != nil {
				return fmt.Errorf("failed to refresh shares: %w", err)
			}
			defer s.wipeAll(refreshed)

			slog.Debug("Shares refreshed",
				"shares", len(shares),
				"threshold", threshold,
				"random_draws", src.Draws())

			var next *shareset.ShareSet
			if set != nil {
				next = set.Next(refreshed)
			} else {
				next = shareset.New(refreshed, threshold)
			}

			out := cmd.OutOrStdout()

			if outputFile != "" {
				if err := next.Save(outputFile); err != nil {
					return fmt.Errorf("failed to save shares: %w", err)
				}
				fmt.Fprintf(out, "Refreshed shares saved to %s\n", outputFile)
			} else if s.jsonOut {
				if err := writeJSON(out, next); err != nil {
					return err
				}
			} else {
				if err := outputShareSet(out, next, s.cfg.Defaults.Encoding, "REFRESHED SECRET SHARES"); err != nil {
					return err
				}
			}

			if destroy && !samePath(inputFile, outputFile) {
				if err := shareset.Destroy(inputFile); err != nil {
					return fmt.Errorf("failed to destroy %s: %w", inputFile, err)
				}
				slog.Debug("Old share set destroyed", "path", inputFile)
				color.New(color.FgYellow).Fprintf(out, "Old share set %s destroyed\n", inputFile)
			}

			if !destroy {
				color.New(color.FgRed, color.Bold).Fprintln(cmd.ErrOrStderr(), "⚠️  Destroy every old share now; old and new shares must never be mixed.")
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&threshold, "threshold", "t", 0, "Threshold used at split time (default from the share set file, which it must match)")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Share set file to refresh")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the refreshed share set to a file")
	cmd.Flags().BoolVar(&destroyInput, "destroy-input", false, "Overwrite and delete the input file after refreshing")
	cmd.Flags().BoolVar(&experimental, "experimental", false, "Enable this experimental command")

	return cmd
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

