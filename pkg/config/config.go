// Package config handles Vordr configuration via environment variables.
//
// Configuration is loaded with LoadFromEnv() and checked with Validate()
// before use. There are no config files; environment variables and defaults
// are the whole story.
//
// Environment Variables:
//   - VORDR_DATA_DIR: snapshot store directory (default: $HOME/.vordr)
//   - VORDR_LOG_LEVEL: debug, info, warn, or error (default: info)
//   - VORDR_LOG_FORMAT: console or json (default: console)
//   - VORDR_SCHEMA: default schema snapshot name (optional)
//
// Example:
//
//	cfg := config.LoadFromEnv()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("invalid config: %v", err)
//	}
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all Vordr configuration loaded from environment variables.
type Config struct {
	// DataDir is the directory holding the snapshot store
	DataDir string

	// LogLevel is the minimum level logged: debug, info, warn, error
	LogLevel string

	// LogFormat selects the log encoder: console or json
	LogFormat string

	// SchemaName is the snapshot used when a command names none
	SchemaName string
}

// LoadFromEnv builds a Config from environment variables, filling defaults
// for anything unset.
func LoadFromEnv() *Config {
	return &Config{
		DataDir:    getEnv("VORDR_DATA_DIR", defaultDataDir()),
		LogLevel:   strings.ToLower(getEnv("VORDR_LOG_LEVEL", "info")),
		LogFormat:  strings.ToLower(getEnv("VORDR_LOG_FORMAT", "console")),
		SchemaName: getEnv("VORDR_SCHEMA", ""),
	}
}

// Validate reports the first configuration problem, or nil.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.LogFormat)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	return nil
}

// String returns a loggable summary of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{DataDir: %s, LogLevel: %s, LogFormat: %s, Schema: %s}",
		c.DataDir, c.LogLevel, c.LogFormat, c.SchemaName)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vordr"
	}
	return filepath.Join(home, ".vordr")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
