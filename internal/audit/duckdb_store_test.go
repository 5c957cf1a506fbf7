// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/razzieboard/razzieboard/internal/config"
	"github.com/razzieboard/razzieboard/internal/database"
)

// auditTestSemaphore serializes DuckDB-backed tests in this package.
var auditTestSemaphore = make(chan struct{}, 1)

func setupTestStore(t *testing.T) *DuckDBStore {
	t.Helper()

	auditTestSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-auditTestSemaphore
	})

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "1GB"})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	store, err := NewDuckDBStore(context.Background(), db.Conn())
	if err != nil {
		t.Fatalf("Failed to create audit store: %v", err)
	}
	return store
}

func testEvent(id string, eventType EventType, outcome Outcome, ts time.Time) Event {
	return Event{
		ID:          id,
		Timestamp:   ts,
		Type:        eventType,
		Outcome:     outcome,
		Action:      "test",
		Description: "test event " + id,
		SourceIP:    "192.0.2.1",
		UserAgent:   "test-agent",
		RequestID:   "req-" + id,
	}
}

func TestSaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	events := []Event{
		testEvent("evt-1", EventTypeMovieCreated, OutcomeSuccess, now),
		testEvent("evt-2", EventTypeDataImport, OutcomeFailure, now.Add(time.Second)),
	}
	events[0].Metadata = []byte(`{"movie_id":"abc","title":"Gigli"}`)

	if err := store.Save(ctx, events); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, "evt-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Type != EventTypeMovieCreated {
		t.Errorf("Type = %q, want %q", got.Type, EventTypeMovieCreated)
	}
	if got.Outcome != OutcomeSuccess {
		t.Errorf("Outcome = %q, want %q", got.Outcome, OutcomeSuccess)
	}
	if got.SourceIP != "192.0.2.1" {
		t.Errorf("SourceIP = %q, want 192.0.2.1", got.SourceIP)
	}
	if got.RequestID != "req-evt-1" {
		t.Errorf("RequestID = %q, want req-evt-1", got.RequestID)
	}
	if len(got.Metadata) == 0 {
		t.Error("Expected metadata to round-trip")
	}
}

func TestSaveEmptyBatch(t *testing.T) {
	store := setupTestStore(t)

	if err := store.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save of empty batch should succeed, got: %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("Expected ErrEventNotFound, got: %v", err)
	}
}

func TestQueryFilters(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	events := []Event{
		testEvent("evt-1", EventTypeMovieCreated, OutcomeSuccess, base),
		testEvent("evt-2", EventTypeMovieUpdated, OutcomeSuccess, base.Add(time.Minute)),
		testEvent("evt-3", EventTypeMovieDeleted, OutcomeFailure, base.Add(2*time.Minute)),
		testEvent("evt-4", EventTypeDataImport, OutcomeSuccess, base.Add(3*time.Minute)),
	}
	if err := store.Save(ctx, events); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	tests := []struct {
		name    string
		filter  QueryFilter
		wantIDs []string
	}{
		{
			name:    "no filter returns all newest first",
			filter:  DefaultQueryFilter(),
			wantIDs: []string{"evt-4", "evt-3", "evt-2", "evt-1"},
		},
		{
			name:    "by single type",
			filter:  QueryFilter{Types: []EventType{EventTypeDataImport}, Limit: 10},
			wantIDs: []string{"evt-4"},
		},
		{
			name: "by multiple types",
			filter: QueryFilter{
				Types: []EventType{EventTypeMovieCreated, EventTypeMovieUpdated},
				Limit: 10,
			},
			wantIDs: []string{"evt-2", "evt-1"},
		},
		{
			name:    "by outcome",
			filter:  QueryFilter{Outcomes: []Outcome{OutcomeFailure}, Limit: 10},
			wantIDs: []string{"evt-3"},
		},
		{
			name: "by time range",
			filter: func() QueryFilter {
				start := base.Add(30 * time.Second)
				end := base.Add(150 * time.Second)
				return QueryFilter{StartTime: &start, EndTime: &end, Limit: 10}
			}(),
			wantIDs: []string{"evt-3", "evt-2"},
		},
		{
			name:    "by request ID",
			filter:  QueryFilter{RequestID: "req-evt-2", Limit: 10},
			wantIDs: []string{"evt-2"},
		},
		{
			name:    "limit and offset",
			filter:  QueryFilter{Limit: 2, Offset: 1},
			wantIDs: []string{"evt-3", "evt-2"},
		},
		{
			name:    "no matches",
			filter:  QueryFilter{RequestID: "nope", Limit: 10},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Got %d events, want %d", len(got), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if got[i].ID != want {
					t.Errorf("Event %d: ID = %q, want %q", i, got[i].ID, want)
				}
			}
		})
	}
}

func TestCount(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	events := make([]Event, 5)
	for i := range events {
		outcome := OutcomeSuccess
		if i%2 == 1 {
			outcome = OutcomeFailure
		}
		events[i] = testEvent(fmt.Sprintf("evt-%d", i), EventTypeMovieCreated, outcome,
			now.Add(time.Duration(i)*time.Second))
	}
	if err := store.Save(ctx, events); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	total, err := store.Count(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if total != 5 {
		t.Errorf("Total count = %d, want 5", total)
	}

	failures, err := store.Count(ctx, QueryFilter{Outcomes: []Outcome{OutcomeFailure}})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if failures != 2 {
		t.Errorf("Failure count = %d, want 2", failures)
	}
}

func TestDeleteOlderThan(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	events := []Event{
		testEvent("old-1", EventTypeMovieCreated, OutcomeSuccess, now.AddDate(0, 0, -100)),
		testEvent("old-2", EventTypeMovieCreated, OutcomeSuccess, now.AddDate(0, 0, -95)),
		testEvent("recent", EventTypeMovieCreated, OutcomeSuccess, now),
	}
	if err := store.Save(ctx, events); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	deleted, err := store.Delete(ctx, now.AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Deleted %d events, want 2", deleted)
	}

	remaining, err := store.Count(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if remaining != 1 {
		t.Errorf("Remaining count = %d, want 1", remaining)
	}

	if _, err := store.Get(ctx, "recent"); err != nil {
		t.Errorf("Recent event should survive cleanup: %v", err)
	}
}
