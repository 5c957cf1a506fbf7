// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package audit

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

// memoryStore is an in-memory Store for logger tests.
type memoryStore struct {
	mu     sync.Mutex
	events []Event
}

func (m *memoryStore) Save(_ context.Context, events []Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.events {
		if m.events[i].ID == id {
			event := m.events[i]
			return &event, nil
		}
	}
	return nil, ErrEventNotFound
}

func (m *memoryStore) Query(_ context.Context, _ QueryFilter) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]Event, len(m.events))
	copy(events, m.events)
	return events, nil
}

func (m *memoryStore) Count(_ context.Context, _ QueryFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.events)), nil
}

func (m *memoryStore) Delete(_ context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []Event
	var deleted int64
	for _, e := range m.events {
		if e.Timestamp.Before(olderThan) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return deleted, nil
}

func (m *memoryStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func newTestLogger(store Store, bufferSize int) *Logger {
	return NewLogger(store, &Config{
		Enabled:       true,
		BufferSize:    bufferSize,
		FlushInterval: 10 * time.Millisecond,
	})
}

func TestLogAssignsIDAndTimestamp(t *testing.T) {
	store := &memoryStore{}
	logger := newTestLogger(store, 10)

	logger.Log(&Event{
		Type:    EventTypeMovieCreated,
		Outcome: OutcomeSuccess,
		Action:  "create",
	})

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events, _ := store.Query(context.Background(), QueryFilter{})
	if len(events) != 1 {
		t.Fatalf("Got %d events, want 1", len(events))
	}
	if events[0].ID == "" {
		t.Error("Expected event ID to be assigned")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("Expected event timestamp to be assigned")
	}
}

func TestCloseDrainsBuffer(t *testing.T) {
	store := &memoryStore{}
	logger := NewLogger(store, &Config{
		Enabled:       true,
		BufferSize:    500,
		FlushInterval: time.Hour, // ticker never fires, Close must drain
	})

	for i := 0; i < 250; i++ {
		logger.Log(&Event{Type: EventTypeMovieUpdated, Outcome: OutcomeSuccess, Action: "update"})
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if got := store.len(); got != 250 {
		t.Errorf("Store has %d events after Close, want 250", got)
	}
}

func TestCloseIdempotent(t *testing.T) {
	logger := newTestLogger(&memoryStore{}, 10)

	if err := logger.Close(); err != nil {
		t.Fatalf("First Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
}

func TestDisabledLoggerWritesNothing(t *testing.T) {
	store := &memoryStore{}
	logger := NewLogger(store, &Config{
		Enabled:       false,
		BufferSize:    10,
		FlushInterval: 10 * time.Millisecond,
	})

	logger.Log(&Event{Type: EventTypeMovieCreated, Outcome: OutcomeSuccess})

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if got := store.len(); got != 0 {
		t.Errorf("Disabled logger wrote %d events, want 0", got)
	}
}

func TestSetEnabled(t *testing.T) {
	store := &memoryStore{}
	logger := newTestLogger(store, 10)

	logger.SetEnabled(false)
	if logger.Enabled() {
		t.Error("Expected logger to be disabled")
	}
	logger.Log(&Event{Type: EventTypeMovieCreated, Outcome: OutcomeSuccess})

	logger.SetEnabled(true)
	logger.Log(&Event{Type: EventTypeMovieDeleted, Outcome: OutcomeSuccess})

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events, _ := store.Query(context.Background(), QueryFilter{})
	if len(events) != 1 {
		t.Fatalf("Got %d events, want 1", len(events))
	}
	if events[0].Type != EventTypeMovieDeleted {
		t.Errorf("Type = %q, want %q", events[0].Type, EventTypeMovieDeleted)
	}
}

func TestBufferFullDropsEvents(t *testing.T) {
	store := &memoryStore{}
	logger := NewLogger(store, &Config{
		Enabled:       true,
		BufferSize:    1,
		FlushInterval: time.Hour,
	})
	// Stop the worker so nothing drains the buffer while logging.
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	logger.Log(&Event{Type: EventTypeMovieCreated, Outcome: OutcomeSuccess})
	logger.Log(&Event{Type: EventTypeMovieCreated, Outcome: OutcomeSuccess})

	if got := len(logger.eventChan); got != 1 {
		t.Errorf("Buffer holds %d events, want 1 (overflow dropped)", got)
	}
}

func TestLogMovieHelpers(t *testing.T) {
	store := &memoryStore{}
	logger := newTestLogger(store, 10)

	req := httptest.NewRequest("POST", "/api/v1/movies", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	req.Header.Set("User-Agent", "razzie-test/1.0")

	logger.LogMovieCreated(req, "movie-123", "Gigli")

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events, _ := store.Query(context.Background(), QueryFilter{})
	if len(events) != 1 {
		t.Fatalf("Got %d events, want 1", len(events))
	}

	got := events[0]
	if got.Type != EventTypeMovieCreated {
		t.Errorf("Type = %q, want %q", got.Type, EventTypeMovieCreated)
	}
	if got.Outcome != OutcomeSuccess {
		t.Errorf("Outcome = %q, want %q", got.Outcome, OutcomeSuccess)
	}
	if got.SourceIP == "" {
		t.Error("Expected source IP from request")
	}
	if got.UserAgent != "razzie-test/1.0" {
		t.Errorf("UserAgent = %q, want razzie-test/1.0", got.UserAgent)
	}

	var meta map[string]interface{}
	if err := json.Unmarshal(got.Metadata, &meta); err != nil {
		t.Fatalf("Failed to unmarshal metadata: %v", err)
	}
	if meta["movie_id"] != "movie-123" {
		t.Errorf("metadata movie_id = %v, want movie-123", meta["movie_id"])
	}
	if meta["title"] != "Gigli" {
		t.Errorf("metadata title = %v, want Gigli", meta["title"])
	}
}

func TestLogImportMetadata(t *testing.T) {
	store := &memoryStore{}
	logger := newTestLogger(store, 10)

	logger.LogImport(nil, OutcomeSuccess, "replace", 200, 3)

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events, _ := store.Query(context.Background(), QueryFilter{})
	if len(events) != 1 {
		t.Fatalf("Got %d events, want 1", len(events))
	}
	if events[0].Type != EventTypeDataImport {
		t.Errorf("Type = %q, want %q", events[0].Type, EventTypeDataImport)
	}

	var meta map[string]interface{}
	if err := json.Unmarshal(events[0].Metadata, &meta); err != nil {
		t.Fatalf("Failed to unmarshal metadata: %v", err)
	}
	if meta["mode"] != "replace" {
		t.Errorf("metadata mode = %v, want replace", meta["mode"])
	}
	if meta["imported"] != float64(200) {
		t.Errorf("metadata imported = %v, want 200", meta["imported"])
	}
	if meta["rejected"] != float64(3) {
		t.Errorf("metadata rejected = %v, want 3", meta["rejected"])
	}
}

func TestLogExportMetadata(t *testing.T) {
	store := &memoryStore{}
	logger := newTestLogger(store, 10)

	logger.LogExport(nil, 206)

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events, _ := store.Query(context.Background(), QueryFilter{})
	if len(events) != 1 {
		t.Fatalf("Got %d events, want 1", len(events))
	}
	if events[0].Type != EventTypeDataExport {
		t.Errorf("Type = %q, want %q", events[0].Type, EventTypeDataExport)
	}

	var meta map[string]interface{}
	if err := json.Unmarshal(events[0].Metadata, &meta); err != nil {
		t.Fatalf("Failed to unmarshal metadata: %v", err)
	}
	if meta["rows"] != float64(206) {
		t.Errorf("metadata rows = %v, want 206", meta["rows"])
	}
}

func TestCleanupRoutine(t *testing.T) {
	store := &memoryStore{}
	old := Event{
		ID:        "old",
		Timestamp: time.Now().AddDate(0, 0, -100),
		Type:      EventTypeMovieCreated,
		Outcome:   OutcomeSuccess,
	}
	if err := store.Save(context.Background(), []Event{old}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	logger := NewLogger(store, &Config{
		Enabled:         true,
		BufferSize:      10,
		FlushInterval:   time.Hour,
		RetentionDays:   90,
		CleanupInterval: 10 * time.Millisecond,
	})
	t.Cleanup(func() {
		_ = logger.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	logger.StartCleanupRoutine(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for store.len() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("Cleanup routine did not remove expired event")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
