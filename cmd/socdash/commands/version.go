package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "socdash %s\n", version)                         //nolint:errcheck // CLI output
			fmt.Fprintf(out, "  go:   %s\n", runtime.Version())               //nolint:errcheck // CLI output
			fmt.Fprintf(out, "  os:   %s/%s\n", runtime.GOOS, runtime.GOARCH) //nolint:errcheck // CLI output
		},
	}
}
