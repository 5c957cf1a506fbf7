// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/razzieboard/razzieboard/internal/csv"
	"github.com/razzieboard/razzieboard/internal/database"
	"github.com/razzieboard/razzieboard/internal/logging"
	"github.com/razzieboard/razzieboard/internal/metrics"
	"github.com/razzieboard/razzieboard/internal/models"
)

// exportPageSize bounds memory use when exporting large movie sets.
const exportPageSize = 1000

// Exporter writes the current movie set as a semicolon-delimited list.
type Exporter struct {
	db *database.DB
}

// NewExporter creates a new exporter.
func NewExporter(db *database.DB) *Exporter {
	return &Exporter{db: db}
}

// Export writes all movies to w in year/title order and returns the
// number of rows written. Pages are written as they are read, so memory
// use stays bounded by exportPageSize regardless of the movie count.
func (e *Exporter) Export(ctx context.Context, w io.Writer) (int64, error) {
	mw, err := csv.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("write movie list: %w", err)
	}

	var written int64
	for offset := 0; ; offset += exportPageSize {
		page, err := e.db.ListMovies(ctx, models.MovieFilter{Limit: exportPageSize, Offset: offset})
		if err != nil {
			return written, fmt.Errorf("list movies for export: %w", err)
		}
		for i := range page {
			if err := mw.WriteMovie(&page[i]); err != nil {
				return written, err
			}
			written++
		}
		if len(page) < exportPageSize {
			break
		}
	}

	if err := mw.Flush(); err != nil {
		return written, err
	}

	metrics.ExportRowsWritten.Add(float64(written))
	return written, nil
}

// ExportFile writes the movie list to path atomically: the data goes to
// a temp file in the same directory which is then renamed over the
// target, so readers never observe a partial snapshot.
func (e *Exporter) ExportFile(ctx context.Context, path string) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, fmt.Errorf("create export directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp export file: %w", err)
	}
	tmpPath := tmp.Name()

	rows, err := e.Export(ctx, tmp)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("close temp export file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("rename export file: %w", err)
	}

	logging.Info().Str("path", path).Int64("rows", rows).Msg("Movie list exported")
	return rows, nil
}
