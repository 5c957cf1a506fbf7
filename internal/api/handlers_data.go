// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/razzieboard/razzieboard/internal/audit"
	"github.com/razzieboard/razzieboard/internal/importer"
	"github.com/razzieboard/razzieboard/internal/logging"
)

// maxImportBodySize caps uploaded CSV payloads at 64 MiB.
const maxImportBodySize = 64 << 20

// ImportMovies handles POST /api/v1/import
//
// The CSV may be sent either as a multipart form with a "file" field or
// as the raw request body. The "mode" query parameter selects "replace"
// (default) or "append".
//
// @Summary Import movies from CSV
// @Description Imports a semicolon-delimited movie list. Rows that fail to parse are reported and skipped.
// @Tags Data
// @Accept mpfd
// @Produce json
// @Param mode query string false "Import mode: replace or append" default(replace)
// @Param file formData file false "CSV file (may also be sent as the raw request body)"
// @Success 200 {object} models.APIResponse{data=importer.ImportStats} "Import completed"
// @Failure 400 {object} models.APIResponse "Invalid mode or request"
// @Failure 409 {object} models.APIResponse "Import already in progress"
// @Failure 422 {object} models.APIResponse "Import failed"
// @Router /import [post]
func (h *Handler) ImportMovies(w http.ResponseWriter, r *http.Request) {
	mode := importer.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = importer.ModeReplace
	}
	if !mode.Valid() {
		respondError(w, http.StatusBadRequest, ErrCodeValidation,
			"Invalid mode: must be \"replace\" or \"append\"", nil)
		return
	}

	reader, cleanup, err := importBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Failed to read upload: "+err.Error(), nil)
		return
	}
	defer cleanup()

	start := time.Now()
	stats, err := h.importer.Import(r.Context(), reader, mode)
	if err != nil {
		if errors.Is(err, importer.ErrImportRunning) {
			respondError(w, http.StatusConflict, ErrCodeImportError, "An import is already in progress", nil)
			return
		}
		if h.audit != nil {
			h.audit.LogImport(r, audit.OutcomeFailure, string(mode), 0, 0)
		}
		respondError(w, http.StatusUnprocessableEntity, ErrCodeImportError, "Import failed: "+err.Error(), err)
		return
	}

	if h.audit != nil {
		h.audit.LogImport(r, audit.OutcomeSuccess, string(mode), stats.Imported, stats.Rejected)
	}

	respondSuccess(w, http.StatusOK, stats, time.Since(start))
}

// ImportStatus handles GET /api/v1/import/status
//
// @Summary Get import status
// @Description Returns whether an import is running and the statistics of the last completed import
// @Tags Data
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Import status retrieved successfully"
// @Router /import/status [get]
func (h *Handler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"running":    h.importer.IsRunning(),
		"last_stats": h.importer.LastStats(),
	}, time.Since(start))
}

// ExportMoviesCSV handles GET /api/v1/export/movies/csv
//
// @Summary Export movies as CSV
// @Description Streams the full movie list as a semicolon-delimited CSV download
// @Tags Data
// @Produce text/csv
// @Success 200 {string} string "CSV content"
// @Failure 500 {object} models.APIResponse "Export failed"
// @Router /export/movies/csv [get]
func (h *Handler) ExportMoviesCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="movies.csv"`)

	rows, err := h.exporter.Export(r.Context(), w)
	if err != nil {
		// Headers are already written; log and abort the stream.
		logging.Error().Err(err).Int64("rows", rows).Msg("CSV export failed mid-stream")
		return
	}

	if h.audit != nil {
		h.audit.LogExport(r, rows)
	}
}

// importBody returns the CSV reader for an import request: the "file"
// part of a multipart form when present, otherwise the raw body.
func importBody(r *http.Request) (io.Reader, func(), error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxImportBodySize)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, func() {}, err
		}
		return file, func() {
			if err := file.Close(); err != nil {
				logging.Warn().Err(err).Msg("Failed to close uploaded file")
			}
		}, nil
	}

	return r.Body, func() {}, nil
}
