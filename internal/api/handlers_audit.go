// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package api

import (
	"net/http"
	"time"

	"github.com/razzieboard/razzieboard/internal/audit"
)

// AuditEvents handles GET /api/v1/audit
//
// @Summary Query audit events
// @Description Returns audit events newest first, filterable by type, outcome, time range, and request ID
// @Tags Audit
// @Accept json
// @Produce json
// @Param type query string false "Event type filter (repeatable)"
// @Param outcome query string false "Outcome filter: success or failure"
// @Param start query string false "Start of time range (RFC 3339)"
// @Param end query string false "End of time range (RFC 3339)"
// @Param request_id query string false "Request ID filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.APIResponse{data=[]audit.Event} "Events retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid filter"
// @Failure 503 {object} models.APIResponse "Auditing disabled"
// @Router /audit [get]
func (h *Handler) AuditEvents(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeInternalError, "Auditing is not enabled", nil)
		return
	}

	filter, err := auditFilterFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	start := time.Now()
	events, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to query audit events", err)
		return
	}
	total, err := h.audit.Count(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to count audit events", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	}, time.Since(start))
}

// auditFilterFromQuery builds an audit query filter from URL parameters.
func auditFilterFromQuery(r *http.Request) (audit.QueryFilter, error) {
	filter := audit.DefaultQueryFilter()
	query := r.URL.Query()

	for _, t := range query["type"] {
		filter.Types = append(filter.Types, audit.EventType(t))
	}
	for _, o := range query["outcome"] {
		filter.Outcomes = append(filter.Outcomes, audit.Outcome(o))
	}
	filter.RequestID = query.Get("request_id")

	if raw := query.Get("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, &filterError{param: "start", err: err}
		}
		filter.StartTime = &t
	}
	if raw := query.Get("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, &filterError{param: "end", err: err}
		}
		filter.EndTime = &t
	}

	if limit := getIntParam(r, "limit", 0); limit > 0 {
		if limit > 1000 {
			limit = 1000
		}
		filter.Limit = limit
	}
	if offset := getIntParam(r, "offset", 0); offset > 0 {
		filter.Offset = offset
	}

	return filter, nil
}

// filterError describes an unparseable query parameter.
type filterError struct {
	param string
	err   error
}

func (e *filterError) Error() string {
	return "Invalid " + e.param + " parameter: " + e.err.Error()
}

func (e *filterError) Unwrap() error {
	return e.err
}
