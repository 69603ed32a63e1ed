package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minisoc/socdash/internal/view"
)

func newLogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "List log files stored on the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			resp, err := newClient(cfg).ListLogs(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing log files: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(resp.Files) == 0 {
				fmt.Fprintln(out, view.MsgNoFiles) //nolint:errcheck // CLI output
				return nil
			}
			for _, f := range resp.Files {
				fmt.Fprintln(out, f) //nolint:errcheck // CLI output
			}
			return nil
		},
	}
}
