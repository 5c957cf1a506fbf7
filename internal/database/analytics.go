// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/razzieboard/razzieboard/internal/awards"
	"github.com/razzieboard/razzieboard/internal/metrics"
	"github.com/razzieboard/razzieboard/internal/models"
)

// StudioWinCounts returns the number of wins per studio, sorted by win
// count descending then studio name ascending. Studio strings are split
// on the same separators as producers, so a shared win credits each
// listed studio once. A limit of zero or less returns all studios.
func (db *DB) StudioWinCounts(ctx context.Context, limit int) ([]models.StudioWins, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, "SELECT studios FROM movies WHERE winner")
	metrics.RecordDBQuery("SELECT", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query winning studios: %w", err)
	}
	defer closeWithLog(rows, "studio rows")

	counts := make(map[string]int64)
	for rows.Next() {
		var studios string
		if err := rows.Scan(&studios); err != nil {
			return nil, fmt.Errorf("failed to scan studios: %w", err)
		}
		for _, studio := range awards.SplitProducers(studios) {
			counts[studio]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("studio row iteration failed: %w", err)
	}

	result := make([]models.StudioWins, 0, len(counts))
	for studio, wins := range counts {
		result = append(result, models.StudioWins{Studio: studio, Wins: wins})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Wins != result[j].Wins {
			return result[i].Wins > result[j].Wins
		}
		return result[i].Studio < result[j].Studio
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// YearsWithMultipleWinners returns the years that have more than one
// winning movie, ordered by year ascending.
func (db *DB) YearsWithMultipleWinners(ctx context.Context) ([]models.YearWinners, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT year, COUNT(*) AS winner_count
		FROM movies
		WHERE winner
		GROUP BY year
		HAVING COUNT(*) > 1
		ORDER BY year`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("SELECT", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query multi-winner years: %w", err)
	}
	defer closeWithLog(rows, "year rows")

	years := make([]models.YearWinners, 0)
	for rows.Next() {
		var yw models.YearWinners
		if err := rows.Scan(&yw.Year, &yw.WinnerCount); err != nil {
			return nil, fmt.Errorf("failed to scan year winners: %w", err)
		}
		years = append(years, yw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("year row iteration failed: %w", err)
	}

	return years, nil
}
