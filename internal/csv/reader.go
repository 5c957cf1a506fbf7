// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

// Package csv reads and writes the semicolon-delimited movie list
// format:
//
//	year;title;studios;producers;winner
//
// The winner column holds the literal "yes" (case-insensitive) for
// winning movies and is empty otherwise. Malformed rows are collected
// as RowErrors rather than aborting the whole parse, so a single bad
// line never blocks an import.
package csv

import (
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/razzieboard/razzieboard/internal/models"
)

// Delimiter separates fields in the movie list format.
const Delimiter = ';'

// fieldCount is the expected number of columns per row.
const fieldCount = 5

// Header lists the canonical column names in order.
var Header = []string{"year", "title", "studios", "producers", "winner"}

// RowError describes a rejected input row.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Raw    string `json:"raw,omitempty"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ParseResult holds the outcome of parsing a movie list.
type ParseResult struct {
	Movies   []models.Movie
	Rejected []RowError
}

// Read parses semicolon-delimited movie records from r. A leading
// header row is detected and skipped. Rows with the wrong field count
// or an unparseable year are collected in Rejected; only I/O level
// failures return an error.
func Read(r io.Reader) (*ParseResult, error) {
	cr := stdcsv.NewReader(r)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1 // field count validated per row
	cr.TrimLeadingSpace = true

	result := &ParseResult{
		Movies:   make([]models.Movie, 0),
		Rejected: make([]RowError, 0),
	}

	line := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var parseErr *stdcsv.ParseError
			if errors.As(err, &parseErr) {
				result.Rejected = append(result.Rejected, RowError{
					Line:   line,
					Reason: parseErr.Err.Error(),
				})
				continue
			}
			return nil, fmt.Errorf("failed to read movie list: %w", err)
		}

		if line == 1 && isHeader(record) {
			continue
		}

		movie, rowErr := parseRow(line, record)
		if rowErr != nil {
			result.Rejected = append(result.Rejected, *rowErr)
			continue
		}
		result.Movies = append(result.Movies, movie)
	}

	return result, nil
}

// parseRow converts one record into a Movie.
func parseRow(line int, record []string) (models.Movie, *RowError) {
	if len(record) != fieldCount {
		return models.Movie{}, &RowError{
			Line:   line,
			Reason: fmt.Sprintf("expected %d fields, got %d", fieldCount, len(record)),
			Raw:    strings.Join(record, string(Delimiter)),
		}
	}

	yearStr := strings.TrimSpace(record[0])
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return models.Movie{}, &RowError{
			Line:   line,
			Reason: fmt.Sprintf("invalid year %q", yearStr),
			Raw:    strings.Join(record, string(Delimiter)),
		}
	}

	title := strings.TrimSpace(record[1])
	if title == "" {
		return models.Movie{}, &RowError{
			Line:   line,
			Reason: "empty title",
			Raw:    strings.Join(record, string(Delimiter)),
		}
	}

	return models.Movie{
		Year:      year,
		Title:     title,
		Studios:   strings.TrimSpace(record[2]),
		Producers: strings.TrimSpace(record[3]),
		Winner:    strings.EqualFold(strings.TrimSpace(record[4]), "yes"),
	}, nil
}

// isHeader reports whether a record looks like the canonical header row.
func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(record[0]), "year")
}
