// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package audit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/razzieboard/razzieboard/internal/logging"
	"github.com/razzieboard/razzieboard/internal/metrics"
)

// maxFlushBatch bounds the number of events written per store call.
const maxFlushBatch = 100

// Config holds configuration for the audit logger.
type Config struct {
	// Enabled controls whether audit logging is active.
	Enabled bool `json:"enabled"`

	// BufferSize is the size of the async write buffer. Events are
	// dropped (and counted) when the buffer is full.
	BufferSize int `json:"buffer_size"`

	// FlushInterval is how often buffered events are written out.
	FlushInterval time.Duration `json:"flush_interval"`

	// RetentionDays is how long to keep audit events.
	RetentionDays int `json:"retention_days"`

	// CleanupInterval is how often to run retention cleanup.
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		BufferSize:      1000,
		FlushInterval:   5 * time.Second,
		RetentionDays:   90,
		CleanupInterval: 24 * time.Hour,
	}
}

// Logger buffers audit events and writes them to the store in batches.
type Logger struct {
	config    *Config
	store     Store
	eventChan chan *Event
	mu        sync.RWMutex
	stopOnce  sync.Once
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewLogger creates a new audit logger and starts its flush worker.
func NewLogger(store Store, config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = 5 * time.Second
	}

	l := &Logger{
		config:    config,
		store:     store,
		eventChan: make(chan *Event, config.BufferSize),
		stopChan:  make(chan struct{}),
	}

	l.wg.Add(1)
	go l.flushWorker()

	return l
}

// flushWorker drains the buffer on a ticker and on shutdown.
func (l *Logger) flushWorker() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.config.FlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, maxFlushBatch)
	for {
		select {
		case <-l.stopChan:
			// Final drain
			for {
				select {
				case event := <-l.eventChan:
					batch = append(batch, *event)
					if len(batch) >= maxFlushBatch {
						l.flush(batch)
						batch = batch[:0]
					}
				default:
					l.flush(batch)
					return
				}
			}
		case <-ticker.C:
			for len(batch) < maxFlushBatch {
				select {
				case event := <-l.eventChan:
					batch = append(batch, *event)
					continue
				default:
				}
				break
			}
			l.flush(batch)
			batch = batch[:0]
			metrics.AuditBufferDepth.Set(float64(len(l.eventChan)))
		case event := <-l.eventChan:
			batch = append(batch, *event)
			if len(batch) >= maxFlushBatch {
				l.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

// flush writes one batch to the store.
func (l *Logger) flush(batch []Event) {
	if len(batch) == 0 || l.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	err := l.store.Save(ctx, batch)
	metrics.AuditFlushDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		logging.Error().Err(err).Int("batch_size", len(batch)).Msg("Failed to save audit events")
	}
}

// Log records an audit event. The call never blocks; when the buffer is
// full the event is dropped and counted.
func (l *Logger) Log(event *Event) {
	if !l.Enabled() {
		return
	}

	if event.ID == "" {
		event.ID = generateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	select {
	case l.eventChan <- event:
		metrics.RecordAuditEvent(string(event.Type))
	default:
		metrics.AuditEventsDropped.Inc()
		logging.Warn().Str("event_id", event.ID).Msg("Audit event buffer full, dropping event")
	}
}

// Close shuts down the logger, draining any buffered events.
func (l *Logger) Close() error {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()
	return nil
}

// StartCleanupRoutine runs retention cleanup until the context ends.
func (l *Logger) StartCleanupRoutine(ctx context.Context) {
	l.mu.RLock()
	interval := l.config.CleanupInterval
	retention := l.config.RetentionDays
	l.mu.RUnlock()

	if interval <= 0 || retention <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := l.Cleanup(ctx); err != nil {
					logging.Error().Err(err).Msg("Audit cleanup error")
				}
			}
		}
	}()
}

// Cleanup deletes events older than the retention window and returns
// how many were removed.
func (l *Logger) Cleanup(ctx context.Context) (int64, error) {
	l.mu.RLock()
	retention := l.config.RetentionDays
	l.mu.RUnlock()

	if retention <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retention)
	count, err := l.store.Delete(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logging.Info().Int64("count", count).Msg("Cleaned up old audit events")
	}
	return count, nil
}

// Query retrieves events matching the filter.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return l.store.Query(ctx, filter)
}

// Count returns the number of events matching the filter.
func (l *Logger) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return l.store.Count(ctx, filter)
}

// SetEnabled enables or disables audit logging.
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Enabled = enabled
}

// Enabled returns whether audit logging is enabled.
func (l *Logger) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config.Enabled
}

// generateEventID generates a unique event ID.
func generateEventID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(b)
}

// Helper methods for common audit events

// LogMovieCreated records a successful movie creation.
func (l *Logger) LogMovieCreated(r *http.Request, movieID, title string) {
	l.Log(newMovieEvent(r, EventTypeMovieCreated, "create", movieID, title,
		"Movie record created"))
}

// LogMovieUpdated records a successful movie update.
func (l *Logger) LogMovieUpdated(r *http.Request, movieID, title string) {
	l.Log(newMovieEvent(r, EventTypeMovieUpdated, "update", movieID, title,
		"Movie record updated"))
}

// LogMovieDeleted records a successful movie deletion.
func (l *Logger) LogMovieDeleted(r *http.Request, movieID, title string) {
	l.Log(newMovieEvent(r, EventTypeMovieDeleted, "delete", movieID, title,
		"Movie record deleted"))
}

// LogImport records the outcome of a movie list import.
func (l *Logger) LogImport(r *http.Request, outcome Outcome, mode string, imported, rejected int64) {
	event := &Event{
		Type:        EventTypeDataImport,
		Outcome:     outcome,
		Action:      "import",
		Description: "Movie list imported",
		Metadata: mustJSON(map[string]interface{}{
			"mode":     mode,
			"imported": imported,
			"rejected": rejected,
		}),
	}
	fillRequestInfo(event, r)
	l.Log(event)
}

// LogExport records a movie list export.
func (l *Logger) LogExport(r *http.Request, rows int64) {
	event := &Event{
		Type:        EventTypeDataExport,
		Outcome:     OutcomeSuccess,
		Action:      "export",
		Description: "Movie list exported",
		Metadata:    mustJSON(map[string]interface{}{"rows": rows}),
	}
	fillRequestInfo(event, r)
	l.Log(event)
}

// newMovieEvent builds a movie mutation event from request context.
func newMovieEvent(r *http.Request, t EventType, action, movieID, title, description string) *Event {
	event := &Event{
		Type:        t,
		Outcome:     OutcomeSuccess,
		Action:      action,
		Description: description,
		Metadata: mustJSON(map[string]string{
			"movie_id": movieID,
			"title":    title,
		}),
	}
	fillRequestInfo(event, r)
	return event
}

// fillRequestInfo copies client and tracing details from the request.
func fillRequestInfo(event *Event, r *http.Request) {
	if r == nil {
		return
	}
	event.SourceIP = r.RemoteAddr
	event.UserAgent = r.UserAgent()
	event.RequestID = logging.RequestIDFromContext(r.Context())
	event.CorrelationID = logging.CorrelationIDFromContext(r.Context())
}

// mustJSON marshals metadata, returning nil on failure rather than
// blocking the event.
func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to marshal audit metadata")
		return nil
	}
	return data
}
