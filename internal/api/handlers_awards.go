// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package api

import (
	"net/http"
	"time"

	"github.com/razzieboard/razzieboard/internal/awards"
	"github.com/razzieboard/razzieboard/internal/metrics"
)

// ProducerIntervals handles GET /api/v1/producers/intervals
//
// @Summary Get producer award intervals
// @Description Returns the producers with the shortest and longest gaps between consecutive wins. Ties are included in both lists.
// @Tags Awards
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.IntervalResult} "Intervals computed successfully"
// @Failure 500 {object} models.APIResponse "Database error"
// @Router /producers/intervals [get]
func (h *Handler) ProducerIntervals(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	winners, err := h.db.ListWinners(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load winners", err)
		return
	}

	result := awards.Compute(winners)
	metrics.RecordIntervalComputation(time.Since(start), len(winners))

	respondSuccess(w, http.StatusOK, result, time.Since(start))
}

// StudioWins handles GET /api/v1/studios/wins
//
// @Summary Get studios ranked by win count
// @Description Returns studios ordered by number of winning movies. Multi-studio entries are split and counted per studio.
// @Tags Awards
// @Accept json
// @Produce json
// @Param limit query int false "Maximum studios to return (default all)"
// @Success 200 {object} models.APIResponse{data=[]models.StudioWins} "Studio wins retrieved successfully"
// @Failure 500 {object} models.APIResponse "Database error"
// @Router /studios/wins [get]
func (h *Handler) StudioWins(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit := getIntParam(r, "limit", 0)
	wins, err := h.db.StudioWinCounts(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to count studio wins", err)
		return
	}

	respondSuccess(w, http.StatusOK, wins, time.Since(start))
}

// YearsWithMultipleWinners handles GET /api/v1/years/multiple-winners
//
// @Summary Get years with multiple winners
// @Description Returns the award years in which more than one movie won, with winner counts
// @Tags Awards
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.YearWinners} "Years retrieved successfully"
// @Failure 500 {object} models.APIResponse "Database error"
// @Router /years/multiple-winners [get]
func (h *Handler) YearsWithMultipleWinners(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	years, err := h.db.YearsWithMultipleWinners(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to list years", err)
		return
	}

	respondSuccess(w, http.StatusOK, years, time.Since(start))
}
