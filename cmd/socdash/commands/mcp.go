package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/minisoc/socdash/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start socdash as an MCP server (stdio)",
		Long: `Exposes the SOC backend as an MCP tool server. Add to your MCP client config:

  {
    "mcpServers": {
      "socdash": {
        "command": "socdash",
        "args": ["mcp", "--config", "./socdash.yaml"]
      }
    }
  }

Tools: list_alerts, alert_stats, list_log_files, analyze_log, clear_alerts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// stdout carries the protocol; logs go to stderr.
			logger := cliLogger(cfg, os.Stderr)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := mcpserver.NewServer(newClient(cfg), version, logger)
			return mcpserver.Serve(ctx, s)
		},
	}
}
