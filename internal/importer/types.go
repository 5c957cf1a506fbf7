// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package importer

import (
	"time"

	"github.com/razzieboard/razzieboard/internal/csv"
)

// Mode controls how an import treats existing movie rows.
type Mode string

const (
	// ModeReplace truncates the movies table before inserting.
	ModeReplace Mode = "replace"

	// ModeAppend keeps existing rows and adds the parsed ones.
	ModeAppend Mode = "append"
)

// Valid reports whether the mode is one of the supported values.
func (m Mode) Valid() bool {
	return m == ModeReplace || m == ModeAppend
}

// ImportStats holds statistics about an import operation.
type ImportStats struct {
	// TotalRows is the number of data rows seen in the input.
	TotalRows int64 `json:"total_rows"`

	// Imported is the number of movies written to the database.
	Imported int64 `json:"imported"`

	// Rejected is the number of rows dropped by the parser.
	Rejected int64 `json:"rejected"`

	// RejectedRows carries the per-row reasons for rejection.
	RejectedRows []csv.RowError `json:"rejected_rows,omitempty"`

	// Mode is the import mode that was used.
	Mode Mode `json:"mode"`

	// StartTime is when the import started.
	StartTime time.Time `json:"start_time"`

	// EndTime is when the import completed (zero if still running).
	EndTime time.Time `json:"end_time,omitempty"`
}

// Duration returns the duration of the import operation.
func (s *ImportStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// RowsPerSecond returns the import rate.
func (s *ImportStats) RowsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.TotalRows) / duration
}
