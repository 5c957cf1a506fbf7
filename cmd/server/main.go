// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

// main wires the Razzieboard server together.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layering defaults, config.yaml, and env vars
//  2. Database: DuckDB with the movies table
//  3. Audit: DuckDB-backed audit store and async logger
//  4. Importer/Exporter: CSV movie list handling
//  5. HTTP API: Chi router with Swagger documentation
//  6. Supervisor tree: suture-managed lifecycle for all long-running parts
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting connections, drains in-flight requests (10s timeout), flushes
// the audit buffer, and checkpoints the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "github.com/razzieboard/razzieboard/docs" // generated swagger docs
	"github.com/razzieboard/razzieboard/internal/api"
	"github.com/razzieboard/razzieboard/internal/audit"
	"github.com/razzieboard/razzieboard/internal/config"
	"github.com/razzieboard/razzieboard/internal/database"
	"github.com/razzieboard/razzieboard/internal/importer"
	"github.com/razzieboard/razzieboard/internal/logging"
	"github.com/razzieboard/razzieboard/internal/metrics"
	"github.com/razzieboard/razzieboard/internal/supervisor"
	"github.com/razzieboard/razzieboard/internal/supervisor/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("movie_list", cfg.Import.Path).
		Msg("Starting Razzieboard")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	// Audit subsystem. Optional; the API works without it.
	var auditLogger *audit.Logger
	if cfg.Audit.Enabled {
		store, err := audit.NewDuckDBStore(context.Background(), db.Conn())
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize audit store")
		}
		auditLogger = audit.NewLogger(store, &audit.Config{
			Enabled:       true,
			BufferSize:    cfg.Audit.BufferSize,
			FlushInterval: cfg.Audit.FlushInterval,
			RetentionDays: cfg.Audit.RetentionDays,
		})
		defer func() {
			if err := auditLogger.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing audit logger")
			}
		}()
		logging.Info().Int("buffer_size", cfg.Audit.BufferSize).Msg("Audit logging enabled")
	} else {
		logging.Info().Msg("Audit logging disabled")
	}

	imp := importer.New(db, &cfg.Import)
	exp := importer.NewExporter(db)

	handler := api.NewHandler(db, imp, exp, auditLogger, cfg, version)
	chiMw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, chiMw)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Data layer services.
	tree.AddDataService(services.NewLoaderService(imp, db, cfg.Import.Path))
	if cfg.Import.SnapshotPath != "" {
		tree.AddDataService(services.NewSnapshotService(exp, cfg.Import.SnapshotPath, cfg.Import.SnapshotInterval))
		logging.Info().Str("path", cfg.Import.SnapshotPath).Msg("CSV snapshot service added")
	}
	if auditLogger != nil {
		tree.AddDataService(services.NewAuditCleanupService(auditLogger, 24*time.Hour))
	}

	// API layer services.
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	uptimeDone := trackUptime(ctx)
	defer uptimeDone()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// trackUptime updates the uptime gauge every 15 seconds until ctx ends.
func trackUptime(ctx context.Context) func() {
	start := time.Now()
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.AppUptime.Set(time.Since(start).Seconds())
			}
		}
	}()

	return func() { <-done }
}
