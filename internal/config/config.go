// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

// Package config loads and validates application configuration.
//
// Configuration is loaded via Koanf v2 with layered sources, highest
// priority last:
//
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Import   ImportConfig   `koanf:"import"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Audit    AuditConfig    `koanf:"audit"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address. Default: 0.0.0.0.
	Host string `koanf:"host"`

	// Port is the listen port. Default: 1981, the year of the first
	// Golden Raspberry ceremony.
	Port int `koanf:"port"`

	// Timeout applies to request read/write and graceful shutdown.
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file path, or ":memory:" for an in-memory
	// database (the default, matching the ephemeral nature of the
	// nominee dataset; the CSV file is the source of truth).
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB memory usage, e.g. "512MB".
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// ImportConfig holds CSV import/export synchronization settings.
type ImportConfig struct {
	// Path is the nominee list CSV loaded at startup when the movies
	// table is empty. Empty disables the startup load.
	Path string `koanf:"path"`

	// BatchSize is the number of records per insert transaction.
	BatchSize int `koanf:"batch_size"`

	// ThrottleRowsPerSecond limits import throughput. 0 disables
	// throttling.
	ThrottleRowsPerSecond int `koanf:"throttle_rows_per_second"`

	// SnapshotPath, when set, enables the periodic CSV snapshot service
	// that writes the current movie table back to disk.
	SnapshotPath string `koanf:"snapshot_path"`

	// SnapshotInterval is how often the snapshot service checks for
	// changes. Default: 5m.
	SnapshotInterval time.Duration `koanf:"snapshot_interval"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// AuditConfig holds audit trail settings.
type AuditConfig struct {
	// Enabled toggles the audit subsystem. Default: true.
	Enabled bool `koanf:"enabled"`

	// BufferSize is the async event buffer capacity.
	BufferSize int `koanf:"buffer_size"`

	// FlushInterval is how often buffered events are written.
	FlushInterval time.Duration `koanf:"flush_interval"`

	// RetentionDays is how long events are kept. 0 disables pruning.
	RetentionDays int `koanf:"retention_days"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid combinations.
// It is called by Load after all layers are merged.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be at least 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size (%d) must be >= api.default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if c.Import.BatchSize < 1 {
		return fmt.Errorf("import.batch_size must be at least 1, got %d", c.Import.BatchSize)
	}
	if c.Import.ThrottleRowsPerSecond < 0 {
		return fmt.Errorf("import.throttle_rows_per_second must not be negative, got %d",
			c.Import.ThrottleRowsPerSecond)
	}
	if c.Import.SnapshotPath != "" && c.Import.SnapshotInterval <= 0 {
		return fmt.Errorf("import.snapshot_interval must be positive when snapshot_path is set")
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d",
				c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s",
				c.Security.RateLimitWindow)
		}
	}
	if c.Audit.Enabled {
		if c.Audit.BufferSize < 1 {
			return fmt.Errorf("audit.buffer_size must be at least 1, got %d", c.Audit.BufferSize)
		}
		if c.Audit.FlushInterval <= 0 {
			return fmt.Errorf("audit.flush_interval must be positive, got %s", c.Audit.FlushInterval)
		}
	}
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error, fatal; got %q",
			c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
