package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minisoc/socdash/internal/config"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(cfgFile); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			cfg := config.Defaults()
			if apiURL != "" {
				cfg.APIURL = apiURL
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(cfgFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (backend %s)\n", cfgFile, cfg.APIURL) //nolint:errcheck // CLI output
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
