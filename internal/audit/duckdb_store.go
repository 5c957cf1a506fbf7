// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/razzieboard/razzieboard/internal/logging"
)

// ErrEventNotFound is returned when a requested audit event does not exist.
var ErrEventNotFound = errors.New("audit event not found")

// DuckDBStore implements Store using DuckDB for persistent storage.
// It shares the application's database connection.
type DuckDBStore struct {
	db *sql.DB
}

// NewDuckDBStore creates a new DuckDB-backed audit store and ensures
// the audit_events table exists.
func NewDuckDBStore(ctx context.Context, db *sql.DB) (*DuckDBStore, error) {
	s := &DuckDBStore{db: db}
	if err := s.createTable(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// createTable creates the audit_events table and indexes.
func (s *DuckDBStore) createTable(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS audit_events (
			id TEXT PRIMARY KEY,
			timestamp TIMESTAMP NOT NULL,
			type TEXT NOT NULL,
			outcome TEXT NOT NULL,
			action TEXT NOT NULL,
			description TEXT NOT NULL,
			metadata JSON,
			source_ip TEXT,
			user_agent TEXT,
			correlation_id TEXT,
			request_id TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_type ON audit_events(type)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_request_id ON audit_events(request_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute audit schema statement: %w", err)
		}
	}

	logging.Debug().Msg("Audit events table created/verified")
	return nil
}

// Save persists a batch of audit events in one transaction.
func (s *DuckDBStore) Save(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin audit transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO audit_events (id, timestamp, type, outcome, action, description,
			metadata, source_ip, user_agent, correlation_id, request_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare audit insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i := range events {
		e := &events[i]
		var metadata interface{}
		if len(e.Metadata) > 0 {
			metadata = string(e.Metadata)
		}

		if _, err := stmt.ExecContext(ctx,
			e.ID, e.Timestamp, string(e.Type), string(e.Outcome), e.Action,
			e.Description, metadata, e.SourceIP, e.UserAgent,
			e.CorrelationID, e.RequestID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert audit event %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit events: %w", err)
	}
	return nil
}

// metadata is cast to VARCHAR because the driver materializes JSON
// columns as maps, which database/sql cannot scan into a string.
const auditColumns = `id, timestamp, type, outcome, action, description,
	metadata::VARCHAR AS metadata, source_ip, user_agent, correlation_id, request_id`

// Get retrieves an event by ID.
func (s *DuckDBStore) Get(ctx context.Context, id string) (*Event, error) {
	query := fmt.Sprintf("SELECT %s FROM audit_events WHERE id = ?", auditColumns)

	event, err := scanAuditEvent(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get audit event: %w", err)
	}
	return event, nil
}

// Query retrieves events matching the filter, newest first.
func (s *DuckDBStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	where, args := buildAuditFilter(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf("SELECT %s FROM audit_events%s ORDER BY timestamp DESC LIMIT ? OFFSET ?",
		auditColumns, where)
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	events := make([]Event, 0)
	for rows.Next() {
		event, err := scanAuditEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit row iteration failed: %w", err)
	}

	return events, nil
}

// Count returns the number of events matching the filter.
func (s *DuckDBStore) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	where, args := buildAuditFilter(filter)

	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_events"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit events: %w", err)
	}
	return count, nil
}

// Delete removes events older than the cutoff.
func (s *DuckDBStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM audit_events WHERE timestamp < ?", olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit events: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}

// buildAuditFilter builds a WHERE clause and args from a QueryFilter.
func buildAuditFilter(filter QueryFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		clauses = append(clauses, fmt.Sprintf("type IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Outcomes) > 0 {
		placeholders := make([]string, len(filter.Outcomes))
		for i, o := range filter.Outcomes {
			placeholders[i] = "?"
			args = append(args, string(o))
		}
		clauses = append(clauses, fmt.Sprintf("outcome IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.StartTime != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, *filter.StartTime)
	}
	if filter.EndTime != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, *filter.EndTime)
	}
	if filter.RequestID != "" {
		clauses = append(clauses, "request_id = ?")
		args = append(args, filter.RequestID)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type auditScanner interface {
	Scan(dest ...interface{}) error
}

// scanAuditEvent scans one audit row in auditColumns order.
func scanAuditEvent(row auditScanner) (*Event, error) {
	var e Event
	var eventType, outcome string
	var metadata, sourceIP, userAgent, correlationID, requestID sql.NullString

	err := row.Scan(&e.ID, &e.Timestamp, &eventType, &outcome, &e.Action,
		&e.Description, &metadata, &sourceIP, &userAgent, &correlationID, &requestID)
	if err != nil {
		return nil, err
	}

	e.Type = EventType(eventType)
	e.Outcome = Outcome(outcome)
	if metadata.Valid && metadata.String != "" {
		e.Metadata = []byte(metadata.String)
	}
	e.SourceIP = sourceIP.String
	e.UserAgent = userAgent.String
	e.CorrelationID = correlationID.String
	e.RequestID = requestID.String

	return &e, nil
}
