package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/minisoc/socdash/internal/view"
)

var errNotConfirmed = errors.New("refusing to clear alerts without confirmation (use --yes when stdin is not a terminal)")

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored alert",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes {
				if !stdinIsTerminal() {
					return errNotConfirmed
				}
				ok, err := confirm(cmd.InOrStdin(), out, "Are you sure you want to clear all alerts? [y/N] ")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted.") //nolint:errcheck // CLI output
					return nil
				}
			}

			if _, err := newClient(cfg).ClearAlerts(cmd.Context()); err != nil {
				return commandError(err, view.MsgClearFailed, view.MsgClearUnreachable)
			}
			fmt.Fprintln(out, okColor.Sprint(view.MsgCleared)) //nolint:errcheck // CLI output
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm prints prompt and reads one line; only "y" or "yes" confirm.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt) //nolint:errcheck // CLI output
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
