// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

// Package models defines the data structures shared across the application:
// movie records, award analytics projections, and the API response envelope.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Movie represents a Golden Raspberry "Worst Movie" nominee.
//
// Studios and Producers are stored as the raw strings from the nominee list;
// a single field may name several studios or producers separated by commas,
// ampersands, or the word "and". Splitting happens downstream where needed
// (see the awards package), never at storage time, so the original text is
// always recoverable on export.
type Movie struct {
	ID        uuid.UUID `json:"id"`
	Year      int       `json:"year" validate:"required,min=1900,max=2100"`
	Title     string    `json:"title" validate:"required,max=512"`
	Studios   string    `json:"studios" validate:"max=1024"`
	Producers string    `json:"producers" validate:"max=1024"`
	Winner    bool      `json:"winner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MovieWinRecord is the projection of a winning movie consumed by the
// interval calculator: the award year and the raw producers string.
// The store emits these already filtered to winner = true.
type MovieWinRecord struct {
	Year      int    `json:"year"`
	Producers string `json:"producers"`
}

// MovieFilter holds the list query options for the movies endpoint.
type MovieFilter struct {
	Year   *int
	Winner *bool
	Limit  int
	Offset int
}

// MoviesPage is the paginated movie list response payload.
type MoviesPage struct {
	Movies []Movie `json:"movies"`
	Total  int64   `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// StudioWins is one row of the studios-by-win-count analytics projection.
type StudioWins struct {
	Studio string `json:"studio"`
	Wins   int64  `json:"wins"`
}

// YearWinners is one row of the years-with-multiple-winners projection.
type YearWinners struct {
	Year        int   `json:"year"`
	WinnerCount int64 `json:"winner_count"`
}
