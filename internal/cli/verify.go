package cli

import (
	"fmt"
	"log/slog"

	"github.com/Davincible/sss/pkg/crypto/shamir"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// VerifyResult is the JSON form of a verification report.
type VerifyResult struct {
	Shares      int   `json:"shares"`
	SecretBytes int   `json:"secret_bytes"`
	XValues     []int `json:"x_values"`
	Consistent  bool  `json:"consistent"`
	Threshold   int   `json:"threshold,omitempty"`
	Sufficient  *bool `json:"sufficient,omitempty"`
}

func newVerifyCommand(s *settings) *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "verify [shares...]",
		Short: "Verify the integrity of shares",
		Long: `Verify that shares are well formed and can be combined together: every
share decodes, all shares have the same length, and no two shares share an
x-coordinate.

Verification cannot prove that shares belong to the same split or that
enough of them are present, unless a share set file records the threshold.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			shares, set, err := gatherShares(cmd.InOrStdin(), cmd.ErrOrStderr(), inputFile, args)
			if err != nil {
				return err
			}
			defer s.wipeAll(shares)

			if len(shares) == 1 && len(shares[0]) < 1+shamir.ShareOverhead {
				return fmt.Errorf("share cannot be combined: %w", shamir.ErrShareTooShort)
			}

			result := VerifyResult{
				Shares:      len(shares),
				SecretBytes: len(shares[0]) - shamir.ShareOverhead,
				XValues:     make([]int, len(shares)),
			}
			for i, share := range shares {
				result.XValues[i] = int(share[len(share)-1])
			}

			if len(shares) > 1 {
				if err := shamir.VerifyShares(shares); err != nil {
					return fmt.Errorf("shares cannot be combined: %w", err)
				}
				result.Consistent = true
			} else if result.XValues[0] == 0 {
				return fmt.Errorf("share cannot be combined: %w", shamir.ErrZeroCoordinate)
			}

			if set != nil && set.Threshold > 0 {
				sufficient := len(shares) >= set.Threshold
				result.Threshold = set.Threshold
				result.Sufficient = &sufficient
			}

			slog.Debug("Shares verified", "shares", result.Shares, "consistent", result.Consistent)

			out := cmd.OutOrStdout()
			if s.jsonOut {
				return writeJSON(out, result)
			}

			green := color.New(color.FgGreen, color.Bold)
			yellow := color.New(color.FgYellow)
			red := color.New(color.FgRed, color.Bold)

			fmt.Fprintln(out)
			if len(shares) == 1 {
				green.Fprintln(out, "✓ Share format is valid")
			} else {
				green.Fprintf(out, "✓ %d shares are valid and consistent\n", len(shares))
			}
			fmt.Fprintln(out)

			yellow.Fprintln(out, "Share details:")
			fmt.Fprintf(out, "  Length:        %d bytes\n", result.SecretBytes+shamir.ShareOverhead)
			fmt.Fprintf(out, "  Secret length: %d bytes\n", result.SecretBytes)
			fmt.Fprintf(out, "  X-coordinates: %v\n", result.XValues)

			if result.Sufficient != nil {
				fmt.Fprintln(out)
				if *result.Sufficient {
					green.Fprintf(out, "✓ Enough shares to reconstruct (%d of %d needed)\n", len(shares), set.Threshold)
				} else {
					red.Fprintf(out, "✗ Not enough shares to reconstruct (%d of %d needed)\n", len(shares), set.Threshold)
				}
			} else {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Remember: you need at least the threshold number of shares.")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Share set file to verify")

	return cmd
}
