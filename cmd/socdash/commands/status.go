package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the backend and show a configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := newClient(cfg)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out)                                                                    //nolint:errcheck // CLI output
			fmt.Fprintln(out, "  socdash status")                                                //nolint:errcheck // CLI output
			fmt.Fprintln(out, "  ────────────────────────────────────────")                      //nolint:errcheck // CLI output
			fmt.Fprintf(out, "  Backend:       %s\n", cfg.APIURL)                                //nolint:errcheck // CLI output
			fmt.Fprintf(out, "  Config:        %s\n", cfgFile)                                   //nolint:errcheck // CLI output
			fmt.Fprintf(out, "  Dashboard:     %s:%d\n", cfg.Dashboard.Bind, cfg.Dashboard.Port) //nolint:errcheck // CLI output

			health, err := client.Health(cmd.Context())
			if err != nil {
				fmt.Fprintf(out, "  Health:        %s (%v)\n", failColor.Sprint("unreachable"), err) //nolint:errcheck // CLI output
				fmt.Fprintln(out)                                                                    //nolint:errcheck // CLI output
				return fmt.Errorf("backend unreachable: %w", err)
			}
			fmt.Fprintf(out, "  Health:        %s\n", okColor.Sprint(health.Status)) //nolint:errcheck // CLI output
			if health.Version != "" {
				fmt.Fprintf(out, "  Version:       %s\n", health.Version) //nolint:errcheck // CLI output
			}

			if count, err := client.Count(cmd.Context()); err == nil {
				fmt.Fprintln(out, "  ────────────────────────────────────────") //nolint:errcheck // CLI output
				fmt.Fprintf(out, "  Alerts:        %d stored\n", count.Count)   //nolint:errcheck // CLI output
			}
			if logs, err := client.ListLogs(cmd.Context()); err == nil {
				fmt.Fprintf(out, "  Log files:     %d on backend\n", logs.Count) //nolint:errcheck // CLI output
			}

			fmt.Fprintln(out) //nolint:errcheck // CLI output
			return nil
		},
	}
}
