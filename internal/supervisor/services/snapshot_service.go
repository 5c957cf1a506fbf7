// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package services

import (
	"context"
	"time"

	"github.com/razzieboard/razzieboard/internal/importer"
	"github.com/razzieboard/razzieboard/internal/logging"
)

// SnapshotService periodically exports the movie table to a CSV file,
// giving operators an always-current plain-text copy of the dataset.
type SnapshotService struct {
	exporter *importer.Exporter
	path     string
	interval time.Duration
	name     string
}

// NewSnapshotService creates a snapshot exporter writing to path every
// interval. Intervals below one minute are raised to one minute.
func NewSnapshotService(exp *importer.Exporter, path string, interval time.Duration) *SnapshotService {
	if interval < time.Minute {
		interval = time.Minute
	}
	return &SnapshotService{
		exporter: exp,
		path:     path,
		interval: interval,
		name:     "csv-snapshot",
	}
}

// Serve implements suture.Service.
func (s *SnapshotService) Serve(ctx context.Context) error {
	if s.path == "" {
		logging.Info().Msg("No snapshot path configured, snapshot service idle")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.snapshot(ctx)
		}
	}
}

func (s *SnapshotService) snapshot(ctx context.Context) {
	start := time.Now()
	rows, err := s.exporter.ExportFile(ctx, s.path)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.Error().Err(err).Str("path", s.path).Msg("CSV snapshot failed")
		return
	}

	logging.Debug().
		Int64("rows", rows).
		Str("path", s.path).
		Dur("duration", time.Since(start)).
		Msg("CSV snapshot written")
}

// String implements fmt.Stringer for logging.
func (s *SnapshotService) String() string {
	return s.name
}
