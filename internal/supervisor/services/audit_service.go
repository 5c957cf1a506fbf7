// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package services

import (
	"context"
	"time"

	"github.com/razzieboard/razzieboard/internal/audit"
	"github.com/razzieboard/razzieboard/internal/logging"
)

// AuditCleanupService periodically removes audit events older than the
// configured retention window.
type AuditCleanupService struct {
	logger   *audit.Logger
	interval time.Duration
	name     string
}

// NewAuditCleanupService creates a cleanup service running every
// interval. Intervals below one minute are raised to one minute.
func NewAuditCleanupService(auditLogger *audit.Logger, interval time.Duration) *AuditCleanupService {
	if interval < time.Minute {
		interval = time.Minute
	}
	return &AuditCleanupService{
		logger:   auditLogger,
		interval: interval,
		name:     "audit-cleanup",
	}
}

// Serve implements suture.Service.
func (s *AuditCleanupService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.logger.Cleanup(ctx); err != nil && ctx.Err() == nil {
				logging.Error().Err(err).Msg("Audit cleanup failed")
			}
		}
	}
}

// String implements fmt.Stringer for logging.
func (s *AuditCleanupService) String() string {
	return s.name
}
