// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != 1981 {
		t.Errorf("expected default port 1981, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("expected default database path :memory:, got %s", cfg.Database.Path)
	}
	if cfg.Import.BatchSize != 500 {
		t.Errorf("expected default batch size 500, got %d", cfg.Import.BatchSize)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
	if !cfg.Audit.Enabled {
		t.Error("expected audit enabled by default")
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("expected default server timeout 30s, got %s", cfg.Server.Timeout)
	}
	if cfg.Security.RateLimitWindow != time.Minute {
		t.Errorf("expected default rate limit window 1m, got %s", cfg.Security.RateLimitWindow)
	}
	if cfg.Audit.FlushInterval != 5*time.Second {
		t.Errorf("expected default audit flush interval 5s, got %s", cfg.Audit.FlushInterval)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default configuration must validate: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	// Run from a temp dir so no stray config.yaml is picked up.
	chdirTemp(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 1981 {
		t.Errorf("expected port 1981, got %d", cfg.Server.Port)
	}
	if cfg.API.DefaultPageSize != 20 {
		t.Errorf("expected default page size 20, got %d", cfg.API.DefaultPageSize)
	}
	if cfg.Security.RateLimitReqs != 100 {
		t.Errorf("expected rate limit 100, got %d", cfg.Security.RateLimitReqs)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)

	t.Setenv("HTTP_PORT", "8099")
	t.Setenv("DUCKDB_PATH", "/tmp/razzie.db")
	t.Setenv("MOVIES_CSV_PATH", "/data/movielist.csv")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AUDIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 8099 {
		t.Errorf("expected port 8099 from env, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/razzie.db" {
		t.Errorf("expected database path from env, got %s", cfg.Database.Path)
	}
	if cfg.Import.Path != "/data/movielist.csv" {
		t.Errorf("expected import path from env, got %s", cfg.Import.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Audit.Enabled {
		t.Error("expected audit disabled via env")
	}
}

func TestLoadUnmappedEnvIgnored(t *testing.T) {
	chdirTemp(t)

	t.Setenv("PATH_MAX", "whatever")
	t.Setenv("RANDOM_UNRELATED_VAR", "value")

	if _, err := Load(); err != nil {
		t.Fatalf("Load() must ignore unmapped env vars: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := chdirTemp(t)

	content := []byte(`server:
  port: 9090
database:
  path: /var/lib/razzieboard/movies.db
import:
  batch_size: 250
logging:
  level: warn
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090 from file, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "/var/lib/razzieboard/movies.db" {
		t.Errorf("unexpected database path %s", cfg.Database.Path)
	}
	if cfg.Import.BatchSize != 250 {
		t.Errorf("expected batch size 250, got %d", cfg.Import.BatchSize)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
	// Unset keys keep defaults.
	if cfg.API.MaxPageSize != 100 {
		t.Errorf("expected max page size 100, got %d", cfg.API.MaxPageSize)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	dir := chdirTemp(t)

	content := []byte("server:\n  port: 9090\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("env must take precedence over file, got port %d", cfg.Server.Port)
	}
}

func TestConfigPathEnvVar(t *testing.T) {
	chdirTemp(t)

	other := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(other, []byte("server:\n  port: 6001\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_PATH", other)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 6001 {
		t.Errorf("expected port 6001 from CONFIG_PATH file, got %d", cfg.Server.Port)
	}
}

func TestCORSOriginsFromEnv(t *testing.T) {
	chdirTemp(t)

	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("expected %d origins, got %v", len(want), cfg.Security.CORSOrigins)
	}
	for i, origin := range want {
		if cfg.Security.CORSOrigins[i] != origin {
			t.Errorf("origin %d: expected %q, got %q", i, origin, cfg.Security.CORSOrigins[i])
		}
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
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.Import.BatchSize = 0 },
			wantErr: true,
		},
		{
			name:    "negative throttle",
			mutate:  func(c *Config) { c.Import.ThrottleRowsPerSecond = -1 },
			wantErr: true,
		},
		{
			name:    "default page size above max",
			mutate:  func(c *Config) { c.API.DefaultPageSize = 500 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "zero audit buffer with audit enabled",
			mutate:  func(c *Config) { c.Audit.BufferSize = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"http_port", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"MOVIES_CSV_PATH", "import.path"},
		{"RATE_LIMIT_REQUESTS", "security.rate_limit_reqs"},
		{"LOG_LEVEL", "logging.level"},
		{"HOME", ""},
		{"UNKNOWN_VARIABLE", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.key); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

// chdirTemp switches the working directory to a fresh temp dir for the
// duration of the test so default config paths resolve nothing.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restore wd: %v", err)
		}
	})
	return dir
}
