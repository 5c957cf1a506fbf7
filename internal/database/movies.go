// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/razzieboard/razzieboard/internal/metrics"
	"github.com/razzieboard/razzieboard/internal/models"
)

const movieColumns = "id, year, title, studios, producers, winner, created_at, updated_at"

// InsertMovie inserts a new movie record. A nil UUID and zero timestamps
// are filled in automatically.
func (db *DB) InsertMovie(ctx context.Context, movie *models.Movie) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if movie.ID == uuid.Nil {
		movie.ID = uuid.New()
	}
	now := time.Now().UTC()
	if movie.CreatedAt.IsZero() {
		movie.CreatedAt = now
	}
	movie.UpdatedAt = now

	query := `INSERT INTO movies (id, year, title, studios, producers, winner, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		movie.ID, movie.Year, movie.Title, movie.Studios,
		movie.Producers, movie.Winner, movie.CreatedAt, movie.UpdatedAt)
	metrics.RecordDBQuery("INSERT", "movies", time.Since(start), err)

	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

// GetMovie fetches a single movie by ID. Returns ErrNotFound if no row
// matches.
func (db *DB) GetMovie(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM movies WHERE id = ?", movieColumns)

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, query, id)

	movie, err := scanMovie(row)
	metrics.RecordDBQuery("SELECT", "movies", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	return movie, nil
}

// ListMovies returns a page of movies matching the filter, ordered by
// year then title for stable pagination.
func (db *DB) ListMovies(ctx context.Context, filter models.MovieFilter) ([]models.Movie, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	// Limit <= 0 means unpaginated. DuckDB treats LIMIT 0 literally,
	// so the clause is only added for positive limits.
	where, args := buildMovieFilter(filter)
	query := fmt.Sprintf("SELECT %s FROM movies%s ORDER BY year, title", movieColumns, where)
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	} else if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("SELECT", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer closeWithLog(rows, "movie rows")

	movies := make([]models.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, *movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("movie row iteration failed: %w", err)
	}

	return movies, nil
}

// CountMovies returns the number of movies matching the filter,
// ignoring pagination.
func (db *DB) CountMovies(ctx context.Context, filter models.MovieFilter) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := buildMovieFilter(filter)
	query := "SELECT COUNT(*) FROM movies" + where

	start := time.Now()
	var count int64
	err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count)
	metrics.RecordDBQuery("SELECT", "movies", time.Since(start), err)

	if err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// UpdateMovie replaces the mutable fields of an existing movie.
// Returns ErrNotFound if the movie does not exist.
func (db *DB) UpdateMovie(ctx context.Context, movie *models.Movie) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	movie.UpdatedAt = time.Now().UTC()

	query := `UPDATE movies
		SET year = ?, title = ?, studios = ?, producers = ?, winner = ?, updated_at = ?
		WHERE id = ?`

	start := time.Now()
	result, err := db.conn.ExecContext(ctx, query,
		movie.Year, movie.Title, movie.Studios, movie.Producers,
		movie.Winner, movie.UpdatedAt, movie.ID)
	metrics.RecordDBQuery("UPDATE", "movies", time.Since(start), err)

	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMovie removes a movie by ID. Returns ErrNotFound if no row
// was deleted.
func (db *DB) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	result, err := db.conn.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	metrics.RecordDBQuery("DELETE", "movies", time.Since(start), err)

	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkInsertMovies inserts a batch of movies inside a single transaction.
// Either all rows are inserted or none. IDs and timestamps are filled in
// the same way as InsertMovie.
func (db *DB) BulkInsertMovies(ctx context.Context, movies []models.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO movies (id, year, title, studios, producers, winner, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer closeQuietly(stmt)

	now := time.Now().UTC()
	start := time.Now()
	for i := range movies {
		movie := &movies[i]
		if movie.ID == uuid.Nil {
			movie.ID = uuid.New()
		}
		if movie.CreatedAt.IsZero() {
			movie.CreatedAt = now
		}
		movie.UpdatedAt = now

		if _, err := stmt.ExecContext(ctx,
			movie.ID, movie.Year, movie.Title, movie.Studios,
			movie.Producers, movie.Winner, movie.CreatedAt, movie.UpdatedAt); err != nil {
			_ = tx.Rollback()
			metrics.RecordDBQuery("INSERT", "movies", time.Since(start), err)
			return fmt.Errorf("failed to insert movie %q (%d): %w", movie.Title, movie.Year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		metrics.RecordDBQuery("INSERT", "movies", time.Since(start), err)
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	metrics.RecordDBQuery("INSERT", "movies", time.Since(start), nil)

	return nil
}

// TruncateMovies deletes all movie rows. Used by replace-mode imports.
func (db *DB) TruncateMovies(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, "DELETE FROM movies")
	metrics.RecordDBQuery("DELETE", "movies", time.Since(start), err)

	if err != nil {
		return fmt.Errorf("failed to truncate movies: %w", err)
	}
	return nil
}

// ListWinners returns the (year, producers) pairs of all winning movies
// ordered by year then title. The ordering is what makes interval
// calculations deterministic when producers tie.
func (db *DB) ListWinners(ctx context.Context) ([]models.MovieWinRecord, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := "SELECT year, producers FROM movies WHERE winner ORDER BY year, title"

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("SELECT", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}
	defer closeWithLog(rows, "winner rows")

	winners := make([]models.MovieWinRecord, 0)
	for rows.Next() {
		var rec models.MovieWinRecord
		if err := rows.Scan(&rec.Year, &rec.Producers); err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		winners = append(winners, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("winner row iteration failed: %w", err)
	}

	return winners, nil
}

// buildMovieFilter builds a WHERE clause and args from a MovieFilter.
// Returns an empty string when no filters are set.
func buildMovieFilter(filter models.MovieFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filter.Year != nil {
		clauses = append(clauses, "year = ?")
		args = append(args, *filter.Year)
	}
	if filter.Winner != nil {
		clauses = append(clauses, "winner = ?")
		args = append(args, *filter.Winner)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanMovie scans one movie row in movieColumns order
func scanMovie(row rowScanner) (*models.Movie, error) {
	var movie models.Movie

	err := row.Scan(&movie.ID, &movie.Year, &movie.Title, &movie.Studios,
		&movie.Producers, &movie.Winner, &movie.CreatedAt, &movie.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}
