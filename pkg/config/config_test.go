package config

import (
	"strings"
	"testing"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("VORDR_DATA_DIR", "")
	t.Setenv("VORDR_LOG_LEVEL", "")
	t.Setenv("VORDR_LOG_FORMAT", "")
	t.Setenv("VORDR_SCHEMA", "")

	cfg := LoadFromEnv()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("LogFormat = %q, want console", cfg.LogFormat)
	}
	if cfg.SchemaName != "" {
		t.Errorf("SchemaName = %q, want empty", cfg.SchemaName)
	}
	if !strings.HasSuffix(cfg.DataDir, ".vordr") {
		t.Errorf("DataDir = %q, want a .vordr directory", cfg.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("VORDR_DATA_DIR", "/tmp/vordr-test")
	t.Setenv("VORDR_LOG_LEVEL", "DEBUG")
	t.Setenv("VORDR_LOG_FORMAT", "JSON")
	t.Setenv("VORDR_SCHEMA", "movies")

	cfg := LoadFromEnv()

	if cfg.DataDir != "/tmp/vordr-test" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug (lowercased)", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json (lowercased)", cfg.LogFormat)
	}
	if cfg.SchemaName != "movies" {
		t.Errorf("SchemaName = %q, want movies", cfg.SchemaName)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: true,
		},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.DataDir = "" },
			wantErr: true,
		},
		{
			name:   "warn level ok",
			mutate: func(c *Config) { c.LogLevel = "warn" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DataDir: "/data", LogLevel: "info", LogFormat: "console"}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStringSummary(t *testing.T) {
	cfg := &Config{DataDir: "/data", LogLevel: "info", LogFormat: "console", SchemaName: "movies"}

	s := cfg.String()
	for _, want := range []string{"/data", "info", "console", "movies"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
