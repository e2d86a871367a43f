// Package config provides the fdctl configuration file.
//
// The file is YAML and records how the board configuration tool is invoked.
// It never stores factory-data values.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/factorydata/config.yaml or $HOME/.config/factorydata/config.yaml
//   - macOS: $HOME/.config/factorydata/config.yaml
//   - Windows: %LOCALAPPDATA%\factorydata\config.yaml
//
// # Example
//
//	version: 1
//	tool: /usr/sbin/arc-board
//	timeout: 10s
//	log_level: info
//
// # Overrides
//
// Values are applied in order: built-in defaults, the file, the
// FACTORYDATA_TOOL / FACTORYDATA_TIMEOUT / FACTORYDATA_LOG_LEVEL environment
// variables, and finally command-line flags (applied by the caller).
package config
