package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/factorydata/internal/config"
	"github.com/muurk/factorydata/internal/factorydata"
	"github.com/muurk/factorydata/internal/logging"
	"github.com/muurk/factorydata/internal/ui"
)

// Keys accepted by 'config set'.
const (
	keyTool     = "tool"
	keyTimeout  = "timeout"
	keyLogLevel = "log-level"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the fdctl configuration file",
		Long: `Create, change and show the configuration file.

The file holds the board tool name, the invocation timeout and the log
level. Factory data values are never stored in it.`,
		// The file may be the thing being repaired, so it is not loaded up front.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := ""
			if cmd.Flags().Changed("log-level") {
				level = a.logLevel
			}
			return logging.Initialize(level)
		},
	}

	cmd.AddCommand(
		newConfigInitCmd(a),
		newConfigSetCmd(a),
		newConfigShowCmd(a),
	)
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with defaults",
		Long: `Write a new configuration file. Global --tool, --timeout and
--log-level flags are stored in place of the defaults.`,
		Example: `  fdctl config init
  fdctl config init --tool /usr/sbin/arc-board --timeout 10s`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ResolvePath(a.configPath)
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil {
				if !force {
					return &factorydata.Error{
						Kind:    factorydata.KindInvalidArgument,
						Message: fmt.Sprintf("%s already exists; pass --force to overwrite", path),
					}
				}
				logging.Warn("overwriting configuration file", zap.String("path", path))
			}

			cfg := config.Default()
			if err := a.applyFlags(cmd, cfg); err != nil {
				return err
			}
			return saveConfig(cmd, cfg, path, "Configuration written")
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one configuration value",
		Long: `Change one value in the configuration file. Keys: tool, timeout,
log-level. An empty log-level silences logging.`,
		Example: `  fdctl config set tool /usr/sbin/arc-board
  fdctl config set timeout 10s`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ResolvePath(a.configPath)
			if err != nil {
				return err
			}

			// Environment overrides stay out of the file.
			cfg, err := config.LoadFile(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return &factorydata.Error{
					Kind:    factorydata.KindInvalidArgument,
					Message: err.Error(),
				}
			}
			return saveConfig(cmd, cfg, path, "Configuration updated")
		},
	}
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration as fdctl would use it: file values with
environment and flag overrides applied.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := a.applyFlags(cmd, cfg); err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case keyTool:
		cfg.Tool = value
	case keyTimeout:
		d, err := time.ParseDuration(value)
		if err != nil {
			return &factorydata.Error{
				Kind:    factorydata.KindInvalidArgument,
				Message: fmt.Sprintf("invalid timeout %q", value),
				Err:     err,
			}
		}
		cfg.Timeout = d
	case keyLogLevel:
		cfg.LogLevel = value
	default:
		return &factorydata.Error{
			Kind:    factorydata.KindInvalidArgument,
			Message: fmt.Sprintf("unknown key %q (expected %s, %s or %s)", key, keyTool, keyTimeout, keyLogLevel),
		}
	}
	return nil
}

func saveConfig(cmd *cobra.Command, cfg *config.Config, path, title string) error {
	if err := cfg.Save(path); err != nil {
		return err
	}
	logging.Info("configuration saved", zap.String("path", path))

	out := cmd.OutOrStdout()
	if !isTTY(out) {
		fmt.Fprintln(out, path)
		return nil
	}

	result := ui.NewSuccessResult(title).
		AddDetail("File", path).
		AddDetail("Tool", cfg.Tool).
		AddDetail("Timeout", cfg.Timeout.String())
	if cfg.LogLevel != "" {
		result.AddDetail("Log level", cfg.LogLevel)
	}
	fmt.Fprintln(out, result.Render())
	return nil
}
