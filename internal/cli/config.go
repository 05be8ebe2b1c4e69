package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Davincible/sss/pkg/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newConfigCommand(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration file",
	}

	cmd.AddCommand(newConfigShowCommand(s), newConfigInitCommand(s))

	return cmd
}

func newConfigShowCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !s.jsonOut {
				color.New(color.FgCyan, color.Bold).Fprintf(out, "# %s\n", s.configPath)
			}
			return writeJSON(out, s.cfg)
		},
	}
}

func newConfigInitCommand(s *settings) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(s.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", s.configPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			if err := config.DefaultConfig().Save(s.configPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", s.configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
