package config

import "time"

// CurrentVersion is the only supported file format version.
const CurrentVersion = 1

// Config represents the configuration file.
type Config struct {
	Version  int           `yaml:"version"`
	Tool     string        `yaml:"tool,omitempty"`      // Board tool name or path
	Timeout  time.Duration `yaml:"timeout,omitempty"`   // Bound on one tool invocation
	LogLevel string        `yaml:"log_level,omitempty"` // debug, info, warn, error; empty is silent
}

// Default returns a Config with built-in defaults.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Tool:    "arc-board",
		Timeout: 5 * time.Second,
	}
}
