// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/razzieboard/razzieboard/internal/audit"
)

// setupAuditEnv builds a test environment with a live audit logger
// backed by the same in-memory database.
func setupAuditEnv(t *testing.T) *testEnv {
	t.Helper()

	env := setupTestEnv(t)

	store, err := audit.NewDuckDBStore(context.Background(), env.db.Conn())
	if err != nil {
		t.Fatalf("Failed to create audit store: %v", err)
	}

	logger := audit.NewLogger(store, &audit.Config{
		Enabled:       true,
		BufferSize:    100,
		FlushInterval: 10 * time.Millisecond,
	})
	t.Cleanup(func() {
		if err := logger.Close(); err != nil {
			t.Errorf("Failed to close audit logger: %v", err)
		}
	})

	env.handler.audit = logger
	return env
}

func TestAuditDisabled(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/v1/audit", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want 503", rec.Code)
	}
}

func TestAuditRecordsMovieMutations(t *testing.T) {
	env := setupAuditEnv(t)

	createRec := env.request(t, http.MethodPost, "/api/v1/movies", MovieRequest{
		Year:  1984,
		Title: "Bolero",
	})
	if createRec.Code != http.StatusCreated {
		t.Fatalf("Create status = %d, want 201", createRec.Code)
	}

	// Wait for the async flush to land the event in the store.
	var events []auditEventView
	deadline := time.Now().Add(2 * time.Second)
	for {
		rec := env.request(t, http.MethodGet, "/api/v1/audit?type=movie.created", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Audit query status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		var page auditPageView
		decodeData(t, decodeResponse(t, rec), &page)
		events = page.Events
		if len(events) > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	if len(events) != 1 {
		t.Fatalf("Got %d audit events, want 1", len(events))
	}
	if events[0].Type != "movie.created" {
		t.Errorf("Type = %q, want movie.created", events[0].Type)
	}
	if events[0].Outcome != "success" {
		t.Errorf("Outcome = %q, want success", events[0].Outcome)
	}
}

func TestAuditInvalidTimeFilter(t *testing.T) {
	env := setupAuditEnv(t)

	rec := env.request(t, http.MethodGet, "/api/v1/audit?start=yesterday", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", rec.Code)
	}
}

func TestAuditTimeRangeFilter(t *testing.T) {
	env := setupAuditEnv(t)

	rec := env.request(t, http.MethodGet,
		"/api/v1/audit?start=2000-01-01T00:00:00Z&end=2000-12-31T00:00:00Z", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	var page auditPageView
	decodeData(t, decodeResponse(t, rec), &page)
	if len(page.Events) != 0 {
		t.Errorf("Got %d events in empty range, want 0", len(page.Events))
	}
}

// auditEventView mirrors the wire shape of an audit event for assertions.
type auditEventView struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Outcome string `json:"outcome"`
	Action  string `json:"action"`
}

// auditPageView mirrors the audit list response payload.
type auditPageView struct {
	Events []auditEventView `json:"events"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}
