package cli

import (
	"fmt"
	"log/slog"

	"github.com/Davincible/sss/pkg/config"
	"github.com/Davincible/sss/pkg/secure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// settings is shared by every subcommand. It is filled in by the root
// command's pre-run hook before any subcommand runs.
type settings struct {
	cfg        *config.Config
	configPath string
	jsonOut    bool
}

// NewRootCommand assembles the sss command tree. level, when non-nil, is
// lowered to Debug by --verbose.
func NewRootCommand(version string, level *slog.LevelVar) *cobra.Command {
	s := &settings{cfg: config.DefaultConfig()}

	var (
		verbose bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "sss",
		Short: "Shamir's Secret Sharing over GF(2^8)",
		Long: `sss splits a secret into shares so that any threshold of them can
reconstruct it and fewer reveal nothing about it.

Shares are the secret's length plus one byte and are compatible with
HashiCorp Vault's Shamir implementation.

Features:
- Split any byte string, text or BIP-39 mnemonic
- Combine shares given as hex, base64 or a share set file
- Refresh a share set without changing the secret (experimental)
- Verify that shares are well formed and consistent`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && level != nil {
				level.Set(slog.LevelDebug)
			}

			if s.configPath == "" {
				path, err := config.Path()
				if err != nil {
					return err
				}
				s.configPath = path
			}

			cfg, err := config.LoadFile(s.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			s.cfg = cfg

			if noColor || !cfg.UI.UseColor {
				color.NoColor = true
			}

			slog.Debug("Configuration loaded", "path", s.configPath, "experimental", cfg.Advanced.EnableExperimental)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVarP(&s.jsonOut, "json", "j", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(&s.configPath, "config", "", "Config file (default $SSS_CONFIG or ~/.config/sss/config.json)")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		newSplitCommand(s),
		newCombineCommand(s),
		newRefreshCommand(s),
		newVerifyCommand(s),
		newConfigCommand(s),
	)

	return cmd
}

// wipe zeroes buffers unless the config turned memory wiping off.
func (s *settings) wipe(bufs ...[]byte) {
	if !s.cfg.Security.WipeMemory {
		return
	}
	for _, b := range bufs {
		secure.Zero(b)
	}
}

func (s *settings) wipeAll(shares [][]byte) {
	if s.cfg.Security.WipeMemory {
		secure.ZeroAll(shares)
	}
}
