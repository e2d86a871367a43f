package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/factorydata/internal/config"
	"github.com/muurk/factorydata/internal/factorydata"
	"github.com/muurk/factorydata/internal/logging"
	"github.com/muurk/factorydata/internal/runner"
	"github.com/muurk/factorydata/internal/ui"
	"github.com/muurk/factorydata/internal/version"
)

// Output formats
const (
	formatPlain = "plain"
	formatTable = "table"
	formatJSON  = "json"
)

// app holds state shared by all commands.
type app struct {
	// Global flags
	configPath string
	tool       string
	timeout    time.Duration
	logLevel   string

	cfg      *config.Config
	accessor *factorydata.Accessor

	// newRunner builds the board tool runner; tests replace it.
	newRunner func(cfg *config.Config, logger *zap.Logger) runner.Runner
}

func newApp() *app {
	return &app{
		newRunner: func(cfg *config.Config, logger *zap.Logger) runner.Runner {
			rc := runner.DefaultConfig()
			rc.Timeout = cfg.Timeout
			return runner.NewExecRunner(rc, logger)
		},
	}
}

// silentError wraps an error that has already been reported to the user.
type silentError struct {
	err error
}

func (e *silentError) Error() string { return e.err.Error() }
func (e *silentError) Unwrap() error { return e.err }

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "fdctl",
		Short: "Factory data accessor",
		Long: `Read and write device factory data (serial number, MAC address,
certificates, credentials) through the board configuration tool.

Identifiers are stable names; run 'fdctl list' to see them and whether
they can be written.`,
		Version:           version.Full(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: OS config dir/factorydata/config.yaml)")
	root.PersistentFlags().StringVar(&a.tool, "tool", "", "board configuration tool name or path")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "maximum time to wait for the board tool")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error); silent when unset")

	root.AddCommand(
		newGetCmd(a),
		newSetCmd(a),
		newListCmd(a),
		newDumpCmd(a),
		newBrowseCmd(a),
		newCheckCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	return root
}

// setup loads configuration, applies flag overrides, and builds the accessor.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := a.applyFlags(cmd, cfg); err != nil {
		return err
	}

	if err := logging.Initialize(cfg.LogLevel); err != nil {
		return err
	}
	logging.Debug("configuration loaded",
		zap.String("tool", cfg.Tool),
		zap.Duration("timeout", cfg.Timeout),
	)
	logger := logging.GetLogger()

	a.cfg = cfg
	a.accessor = factorydata.NewAccessor(
		factorydata.Config{Tool: cfg.Tool},
		nil,
		a.newRunner(cfg, logger),
		logger,
	)
	return nil
}

// applyFlags copies the global flags the user set onto cfg and validates it.
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("tool") {
		cfg.Tool = a.tool
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	return cfg.Validate()
}

// configPathOrDefault returns the config file in use, for display.
func (a *app) configPathOrDefault() string {
	path, err := config.ResolvePath(a.configPath)
	if err != nil {
		return "(none)"
	}
	return path
}

// reportFailure logs err and prints it to w, as a box sized to the terminal
// when w is one. The returned error is marked as already reported.
func reportFailure(w io.Writer, op, id string, err error) error {
	logging.LogFailure(op, id, factorydata.KindOf(err).String(), err)

	if f, ok := w.(*os.File); ok && ui.IsTerminal(f) {
		box := ui.NewFailureResult(failureTitle(op, id), err, factorydata.TroubleshootingHints(err)).
			SetWidth(ui.TerminalWidth(f))
		fmt.Fprintln(w, box.Render())
	} else {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	return &silentError{err: err}
}

func failureTitle(op, id string) string {
	if id == "" {
		return op + " failed"
	}
	return fmt.Sprintf("%s %s failed", op, id)
}

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return &factorydata.Error{
		Kind:    factorydata.KindInvalidArgument,
		Message: fmt.Sprintf("unknown format %q (expected one of %v)", format, allowed),
	}
}

// usageArgs maps positional argument errors to KindInvalidArgument.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &factorydata.Error{
				Kind:    factorydata.KindInvalidArgument,
				Message: err.Error(),
				Err:     errors.Unwrap(err),
			}
		}
		return nil
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// No config or tool needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String("fdctl"))
		},
	}
}
