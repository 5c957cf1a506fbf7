// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogHandlerWritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	handler := NewSlogHandlerWithLogger(NewTestLogger(&buf))
	logger := slog.New(handler)

	logger.Info("service started", slog.String("service", "http-server"))

	output := buf.String()
	if !strings.Contains(output, `"message":"service started"`) {
		t.Errorf("Expected message in output: %s", output)
	}
	if !strings.Contains(output, `"service":"http-server"`) {
		t.Errorf("Expected attribute in output: %s", output)
	}
}

func TestSlogHandlerNestedGroupsOuterFirst(t *testing.T) {
	var buf bytes.Buffer
	handler := NewSlogHandlerWithLogger(NewTestLogger(&buf))
	logger := slog.New(handler).WithGroup("outer").WithGroup("inner")

	logger.Info("grouped", slog.String("k", "v"))

	output := buf.String()
	if !strings.Contains(output, `"outer.inner.k":"v"`) {
		t.Errorf("Expected outer.inner.k in output: %s", output)
	}
}

func TestSlogHandlerGroupAttr(t *testing.T) {
	var buf bytes.Buffer
	handler := NewSlogHandlerWithLogger(NewTestLogger(&buf))
	logger := slog.New(handler)

	logger.Info("grouped", slog.Group("import", slog.Int("rows", 206)))

	output := buf.String()
	if !strings.Contains(output, `"import.rows":206`) {
		t.Errorf("Expected import.rows in output: %s", output)
	}
}
