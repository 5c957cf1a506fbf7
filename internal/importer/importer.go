// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

// Package importer loads semicolon-delimited movie lists into the
// database and exports the current movie set back to the same format.
// One import runs at a time; concurrent attempts are rejected rather
// than queued.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/razzieboard/razzieboard/internal/config"
	"github.com/razzieboard/razzieboard/internal/csv"
	"github.com/razzieboard/razzieboard/internal/database"
	"github.com/razzieboard/razzieboard/internal/logging"
	"github.com/razzieboard/razzieboard/internal/metrics"
	"github.com/razzieboard/razzieboard/internal/models"
)

// ErrImportRunning is returned when an import is already in progress.
var ErrImportRunning = fmt.Errorf("import already in progress")

// Importer loads movie lists into the database.
type Importer struct {
	db  *database.DB
	cfg *config.ImportConfig

	// State
	mu      sync.RWMutex
	running bool
	stats   *ImportStats
}

// New creates a new importer.
func New(db *database.DB, cfg *config.ImportConfig) *Importer {
	return &Importer{
		db:  db,
		cfg: cfg,
	}
}

// IsRunning returns whether an import is currently in progress.
func (i *Importer) IsRunning() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.running
}

// LastStats returns a copy of the stats from the most recent import,
// or nil if none has run yet.
func (i *Importer) LastStats() *ImportStats {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.stats == nil {
		return nil
	}
	statsCopy := *i.stats
	return &statsCopy
}

// Import parses movie records from r and writes them to the database.
// In replace mode the movies table is truncated first. Rows rejected by
// the parser are counted and reported but do not fail the import.
func (i *Importer) Import(ctx context.Context, r io.Reader, mode Mode) (statsOut *ImportStats, err error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid import mode %q", mode)
	}

	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, ErrImportRunning
	}
	i.running = true
	stats := &ImportStats{
		StartTime: time.Now(),
		Mode:      mode,
	}
	i.stats = stats
	i.mu.Unlock()

	// Finalize EndTime before re-snapshotting the named return so the
	// caller's copy carries it.
	defer func() {
		i.mu.Lock()
		i.running = false
		stats.EndTime = time.Now()
		i.mu.Unlock()
		statsOut = i.LastStats()
	}()

	result, err := csv.Read(r)
	if err != nil {
		metrics.RecordImport(stats.Duration(), 0, err)
		return i.LastStats(), fmt.Errorf("parse movie list: %w", err)
	}

	i.mu.Lock()
	stats.TotalRows = int64(len(result.Movies) + len(result.Rejected))
	stats.Rejected = int64(len(result.Rejected))
	stats.RejectedRows = result.Rejected
	i.mu.Unlock()

	for _, rowErr := range result.Rejected {
		metrics.ImportRowsRejected.WithLabelValues("parse").Inc()
		logging.Warn().
			Int("line", rowErr.Line).
			Str("reason", rowErr.Reason).
			Msg("Rejected movie list row")
	}

	if mode == ModeReplace {
		if err := i.db.TruncateMovies(ctx); err != nil {
			metrics.RecordImport(stats.Duration(), 0, err)
			return i.LastStats(), fmt.Errorf("truncate movies: %w", err)
		}
	}

	imported, err := i.insertBatches(ctx, result.Movies)

	i.mu.Lock()
	stats.Imported = imported
	i.mu.Unlock()

	metrics.RecordImport(stats.Duration(), int(imported), err)
	if err != nil {
		return i.LastStats(), err
	}

	logging.Info().
		Str("mode", string(mode)).
		Int64("total_rows", stats.TotalRows).
		Int64("imported", imported).
		Int64("rejected", stats.Rejected).
		Dur("duration", stats.Duration()).
		Msg("Movie list import completed")

	return i.LastStats(), nil
}

// ImportFile opens a movie list file and imports it.
func (i *Importer) ImportFile(ctx context.Context, path string, mode Mode) (*ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open movie list %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Str("path", path).Msg("Error closing movie list file")
		}
	}()

	return i.Import(ctx, f, mode)
}

// insertBatches writes movies in batches of cfg.BatchSize, throttled to
// cfg.ThrottleRowsPerSecond when configured.
func (i *Importer) insertBatches(ctx context.Context, movies []models.Movie) (int64, error) {
	batchSize := i.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}

	var limiter *rate.Limiter
	if i.cfg.ThrottleRowsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(i.cfg.ThrottleRowsPerSecond), batchSize)
	}

	var imported int64
	for start := 0; start < len(movies); start += batchSize {
		end := start + batchSize
		if end > len(movies) {
			end = len(movies)
		}
		batch := movies[start:end]

		if limiter != nil {
			if err := limiter.WaitN(ctx, len(batch)); err != nil {
				return imported, fmt.Errorf("import throttled wait: %w", err)
			}
		}

		if err := i.db.BulkInsertMovies(ctx, batch); err != nil {
			return imported, fmt.Errorf("insert batch at row %d: %w", start, err)
		}
		imported += int64(len(batch))

		logging.Debug().
			Int("batch_start", start).
			Int("batch_size", len(batch)).
			Msg("Imported movie batch")
	}

	return imported, nil
}
