// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

// Package awards computes award statistics over winning movie records.
//
// The central entry point is Compute, which derives, per producer, the
// interval in years between each pair of consecutive wins, then reduces the
// full interval set to the entries matching the global minimum and maximum.
// It is a deterministic pure function: no I/O, no shared state, no error
// paths. Callers supply records already filtered to winners.
package awards

import (
	"regexp"
	"sort"
	"strings"

	"github.com/razzieboard/razzieboard/internal/models"
)

// producerSeparator splits a raw producers string into individual names.
// Separators are commas, ampersands, and the whole word "and"
// (case-insensitive, word-bounded so names like "Brandon" stay intact).
var producerSeparator = regexp.MustCompile(`(?i),|&|\band\b`)

// SplitProducers parses a raw producers field into individual producer
// names. Fragments are trimmed of surrounding whitespace; empty fragments
// (from trailing separators or malformed input) are discarded. Matching is
// case-sensitive and exact-after-trim: two spellings that differ in case or
// internal whitespace are distinct producers.
func SplitProducers(raw string) []string {
	parts := producerSeparator.Split(raw, -1)
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Compute derives the minimum and maximum win intervals across producers.
//
// The algorithm:
//  1. Split each record's producers field and append the record's year to
//     every named producer. Duplicate (producer, year) pairs are kept as-is;
//     a producer listed twice on one movie legitimately yields an interval
//     of zero.
//  2. Sort each producer's years ascending.
//  3. For every producer with at least two years, emit one ProducerInterval
//     per adjacent pair.
//  4. Keep every interval equal to the global minimum (Min list) and every
//     interval equal to the global maximum (Max list), preserving generation
//     order. Ties are never broken: all matching entries are returned.
//
// An empty input, or one where no producer has two wins, yields empty (non
// nil) Min and Max lists. Compute never returns an error.
func Compute(winners []models.MovieWinRecord) models.IntervalResult {
	intervals := allIntervals(winners)

	result := models.IntervalResult{
		Min: []models.ProducerInterval{},
		Max: []models.ProducerInterval{},
	}
	if len(intervals) == 0 {
		return result
	}

	minVal := intervals[0].Interval
	maxVal := intervals[0].Interval
	for _, iv := range intervals[1:] {
		if iv.Interval < minVal {
			minVal = iv.Interval
		}
		if iv.Interval > maxVal {
			maxVal = iv.Interval
		}
	}

	for _, iv := range intervals {
		if iv.Interval == minVal {
			result.Min = append(result.Min, iv)
		}
		if iv.Interval == maxVal {
			result.Max = append(result.Max, iv)
		}
	}
	return result
}

// allIntervals builds the full interval list in deterministic order:
// producers in first-appearance order, pairs chronological within each.
func allIntervals(winners []models.MovieWinRecord) []models.ProducerInterval {
	// Accumulate win years per producer. The map is local to this call;
	// order is a separate slice so iteration stays deterministic.
	years := make(map[string][]int)
	var order []string

	for _, movie := range winners {
		for _, producer := range SplitProducers(movie.Producers) {
			if _, seen := years[producer]; !seen {
				order = append(order, producer)
			}
			years[producer] = append(years[producer], movie.Year)
		}
	}

	var intervals []models.ProducerInterval
	for _, producer := range order {
		wins := years[producer]
		if len(wins) < 2 {
			continue
		}
		sort.Ints(wins)
		for i := 0; i+1 < len(wins); i++ {
			intervals = append(intervals, models.ProducerInterval{
				Producer:     producer,
				Interval:     wins[i+1] - wins[i],
				PreviousWin:  wins[i],
				FollowingWin: wins[i+1],
			})
		}
	}
	return intervals
}
