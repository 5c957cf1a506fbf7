// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

// Package metrics provides Prometheus instrumentation for the service:
// DuckDB query performance, API endpoint latency and throughput, CSV
// import/export progress, and the audit pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	DBMovieRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_movie_rows",
			Help: "Current number of rows in the movies table",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Interval Calculation Metrics
	IntervalComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "producer_interval_compute_duration_seconds",
			Help:    "Duration of producer interval calculations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	IntervalWinnersProcessed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "producer_interval_winners_processed",
			Help:    "Number of winning records per interval calculation",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// Import Metrics
	ImportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "csv_import_duration_seconds",
			Help:    "Duration of CSV import operations in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	ImportRowsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "csv_import_rows_processed_total",
			Help: "Total number of CSV rows processed during imports",
		},
	)

	ImportRowsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csv_import_rows_rejected_total",
			Help: "Total number of CSV rows rejected during imports",
		},
		[]string{"reason"}, // "field_count", "year", "validation"
	)

	ImportLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "csv_import_last_success_timestamp",
			Help: "Unix timestamp of last successful CSV import",
		},
	)

	ExportRowsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "csv_export_rows_written_total",
			Help: "Total number of rows written by CSV exports",
		},
	)

	// Audit Pipeline Metrics
	AuditEventsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_recorded_total",
			Help: "Total number of audit events recorded",
		},
		[]string{"action"},
	)

	AuditEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_events_dropped_total",
			Help: "Total number of audit events dropped due to a full buffer",
		},
	)

	AuditBufferDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "audit_buffer_depth",
			Help: "Current number of audit events waiting to be flushed",
		},
	)

	AuditFlushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "audit_flush_duration_seconds",
			Help:    "Duration of audit buffer flushes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordIntervalComputation records one producer interval calculation.
func RecordIntervalComputation(duration time.Duration, winners int) {
	IntervalComputeDuration.Observe(duration.Seconds())
	IntervalWinnersProcessed.Observe(float64(winners))
}

// RecordImport records the outcome of a CSV import run.
func RecordImport(duration time.Duration, rowsProcessed int, err error) {
	ImportDuration.Observe(duration.Seconds())
	ImportRowsProcessed.Add(float64(rowsProcessed))
	if err == nil {
		ImportLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordAuditEvent records one audit event accepted into the buffer.
func RecordAuditEvent(action string) {
	AuditEventsRecorded.WithLabelValues(action).Inc()
}
