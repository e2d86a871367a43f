package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/factorydata/internal/factorydata"
	"github.com/muurk/factorydata/internal/logging"
	"github.com/muurk/factorydata/internal/runner"
	"github.com/muurk/factorydata/internal/ui"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the board tool is available",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			check := runner.CheckTool(a.cfg.Tool)
			out := cmd.OutOrStdout()
			tty := isTTY(out)

			if !check.Available {
				logging.Warn("board tool not available",
					zap.String("tool", check.Name),
					zap.Error(check.Error),
				)
				err := &factorydata.Error{
					Kind:    factorydata.KindUnavailable,
					Message: fmt.Sprintf("board tool %q not available", check.Name),
					Err:     check.Error,
				}

				errOut := cmd.ErrOrStderr()
				f, ok := errOut.(*os.File)
				if !ok || !ui.IsTerminal(f) {
					fmt.Fprintf(errOut, "Error: %v\n%s\n", err, check.Message)
					return &silentError{err: err}
				}

				result := ui.NewWarningResult("Board tool not available").
					SetWidth(ui.TerminalWidth(f)).
					AddDetail("Tool", check.Name).
					AddDetail("Config", a.configPathOrDefault())
				for _, hint := range factorydata.TroubleshootingHints(err) {
					result.AddDetail("Hint", hint)
				}
				fmt.Fprintln(errOut, result.Render())
				fmt.Fprintln(errOut, check.Message)
				return &silentError{err: err}
			}

			if tty {
				fmt.Fprintln(out, ui.RenderSuccess("Board tool available",
					ui.Detail{Key: "Tool", Value: check.Name},
					ui.Detail{Key: "Path", Value: check.Path},
					ui.Detail{Key: "Timeout", Value: a.cfg.Timeout.String()},
				))
				return nil
			}
			fmt.Fprintf(out, "%s: %s\n", check.Name, check.Path)
			return nil
		},
	}
}
