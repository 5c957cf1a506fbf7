// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package api

import (
	"time"

	"github.com/razzieboard/razzieboard/internal/audit"
	"github.com/razzieboard/razzieboard/internal/config"
	"github.com/razzieboard/razzieboard/internal/database"
	"github.com/razzieboard/razzieboard/internal/importer"
)

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_health.go: Health/monitoring endpoints
//   - handlers_movies.go: Movie CRUD endpoints
//   - handlers_awards.go: Producer interval and analytics endpoints
//   - handlers_data.go: CSV import/export endpoints
//   - handlers_audit.go: Audit trail query endpoints
type Handler struct {
	db        *database.DB
	importer  *importer.Importer
	exporter  *importer.Exporter
	audit     *audit.Logger
	config    *config.Config
	startTime time.Time
	version   string
}

// NewHandler creates a new API handler with all required dependencies.
// The audit logger may be nil when auditing is disabled.
func NewHandler(db *database.DB, imp *importer.Importer, exp *importer.Exporter, auditLog *audit.Logger, cfg *config.Config, version string) *Handler {
	if version == "" {
		version = "dev"
	}
	return &Handler{
		db:        db,
		importer:  imp,
		exporter:  exp,
		audit:     auditLog,
		config:    cfg,
		startTime: time.Now(),
		version:   version,
	}
}

// pageSize clamps a requested page size to the configured bounds.
func (h *Handler) pageSize(requested int) int {
	defaultSize := 20
	maxSize := 100
	if h.config != nil {
		if h.config.API.DefaultPageSize > 0 {
			defaultSize = h.config.API.DefaultPageSize
		}
		if h.config.API.MaxPageSize > 0 {
			maxSize = h.config.API.MaxPageSize
		}
	}

	if requested <= 0 {
		return defaultSize
	}
	if requested > maxSize {
		return maxSize
	}
	return requested
}
