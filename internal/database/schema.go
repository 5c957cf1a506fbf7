// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables and indexes
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		// Movies table - one row per nominated movie. Studios and
		// producers are kept as the raw delimited strings from the
		// source data; splitting happens at the application layer so
		// the original formatting survives round trips through export.
		`CREATE TABLE IF NOT EXISTS movies (
			id UUID PRIMARY KEY,
			year INTEGER NOT NULL,
			title TEXT NOT NULL,
			studios TEXT NOT NULL DEFAULT '',
			producers TEXT NOT NULL DEFAULT '',
			winner BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		// Year is the primary filter for listings and analytics
		`CREATE INDEX IF NOT EXISTS idx_movies_year ON movies(year)`,

		// Winner lookups drive the interval and analytics endpoints
		`CREATE INDEX IF NOT EXISTS idx_movies_winner_year ON movies(winner, year)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}
