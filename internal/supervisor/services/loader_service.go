// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package services

import (
	"context"
	"fmt"
	"os"

	"github.com/razzieboard/razzieboard/internal/database"
	"github.com/razzieboard/razzieboard/internal/importer"
	"github.com/razzieboard/razzieboard/internal/logging"
	"github.com/razzieboard/razzieboard/internal/models"
)

// LoaderService runs the startup CSV import and then blocks until
// shutdown. The import only runs against an empty movies table, so a
// restart on a persistent database keeps manual edits. When the
// configured file does not exist, the service logs a warning and
// idles; the API is still usable with manual imports.
type LoaderService struct {
	importer *importer.Importer
	db       *database.DB
	path     string
	name     string
}

// NewLoaderService creates a service that imports the movie list at
// path when the tree starts and the movies table is empty.
func NewLoaderService(imp *importer.Importer, db *database.DB, path string) *LoaderService {
	return &LoaderService{
		importer: imp,
		db:       db,
		path:     path,
		name:     "csv-loader",
	}
}

// Serve implements suture.Service.
func (s *LoaderService) Serve(ctx context.Context) error {
	if s.path == "" {
		logging.Info().Msg("No movie list configured, skipping startup import")
		<-ctx.Done()
		return ctx.Err()
	}

	if _, err := os.Stat(s.path); err != nil {
		logging.Warn().Err(err).Str("path", s.path).Msg("Movie list not readable, skipping startup import")
		<-ctx.Done()
		return ctx.Err()
	}

	count, err := s.db.CountMovies(ctx, models.MovieFilter{})
	if err != nil {
		return fmt.Errorf("startup import precheck failed: %w", err)
	}
	if count > 0 {
		logging.Info().Int64("movies", count).Msg("Movies already loaded, skipping startup import")
		<-ctx.Done()
		return ctx.Err()
	}

	logging.Info().Str("path", s.path).Msg("Starting movie list import")
	stats, err := s.importer.ImportFile(ctx, s.path, importer.ModeReplace)
	if err != nil {
		if ctx.Err() != nil {
			logging.Info().Msg("Startup import canceled due to shutdown")
			return ctx.Err()
		}
		return fmt.Errorf("startup import failed: %w", err)
	}

	logging.Info().
		Int64("imported", stats.Imported).
		Int64("rejected", stats.Rejected).
		Dur("duration", stats.Duration()).
		Msg("Startup import completed")

	<-ctx.Done()
	return ctx.Err()
}

// String implements fmt.Stringer for logging.
func (s *LoaderService) String() string {
	return s.name
}
