// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package csv

import (
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/razzieboard/razzieboard/internal/models"
)

// Writer emits movies in the semicolon-delimited movie list format
// incrementally, so callers can interleave database pages with output.
type Writer struct {
	cw *stdcsv.Writer
}

// NewWriter creates a movie list writer and emits the header row.
func NewWriter(w io.Writer) (*Writer, error) {
	cw := stdcsv.NewWriter(w)
	cw.Comma = Delimiter
	if err := cw.Write(Header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return &Writer{cw: cw}, nil
}

// WriteMovie appends one movie row. Winners get the literal "yes" in
// the winner column; other movies get an empty field, matching the
// source data.
func (w *Writer) WriteMovie(movie *models.Movie) error {
	winner := ""
	if movie.Winner {
		winner = "yes"
	}
	record := []string{
		strconv.Itoa(movie.Year),
		movie.Title,
		movie.Studios,
		movie.Producers,
		winner,
	}
	if err := w.cw.Write(record); err != nil {
		return fmt.Errorf("failed to write movie %q: %w", movie.Title, err)
	}
	return nil
}

// Flush writes any buffered rows to the underlying writer.
func (w *Writer) Flush() error {
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		return fmt.Errorf("failed to flush movie list: %w", err)
	}
	return nil
}

// Write emits the full movie list in one call, header row first.
func Write(w io.Writer, movies []models.Movie) error {
	mw, err := NewWriter(w)
	if err != nil {
		return err
	}
	for i := range movies {
		if err := mw.WriteMovie(&movies[i]); err != nil {
			return err
		}
	}
	return mw.Flush()
}
