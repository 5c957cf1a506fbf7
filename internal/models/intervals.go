// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package models

// ProducerInterval is the gap between two consecutive award wins for a
// single producer. Interval is always FollowingWin - PreviousWin and is
// never negative: win years are sorted ascending before pairing.
type ProducerInterval struct {
	Producer     string `json:"producer"`
	Interval     int    `json:"interval"`
	PreviousWin  int    `json:"previousWin"`
	FollowingWin int    `json:"followingWin"`
}

// IntervalResult holds every interval matching the global minimum and the
// global maximum across all producers.
//
// Both lists carry ALL ties, in the order the intervals were generated
// (producer first-appearance order, then chronological within a producer).
// When the dataset has fewer than two wins for every producer, both lists
// are empty. When the global minimum equals the global maximum, the same
// entries appear in both lists.
type IntervalResult struct {
	Min []ProducerInterval `json:"min"`
	Max []ProducerInterval `json:"max"`
}
