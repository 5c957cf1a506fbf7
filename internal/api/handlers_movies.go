// Razzieboard - Golden Raspberry Awards Analytics
// Copyright 2026 Razzieboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/razzieboard/razzieboard

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/razzieboard/razzieboard/internal/database"
	"github.com/razzieboard/razzieboard/internal/models"
)

// MovieRequest is the create/update request body for a movie record.
type MovieRequest struct {
	Year      int    `json:"year" validate:"required,min=1900,max=2100"`
	Title     string `json:"title" validate:"required,max=512"`
	Studios   string `json:"studios" validate:"max=1024"`
	Producers string `json:"producers" validate:"max=1024"`
	Winner    bool   `json:"winner"`
}

// ListMovies handles GET /api/v1/movies
//
// @Summary List movies
// @Description Returns a paginated movie list, optionally filtered by year and winner flag
// @Tags Movies
// @Accept json
// @Produce json
// @Param year query int false "Filter by award year"
// @Param winner query bool false "Filter by winner flag"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.APIResponse{data=models.MoviesPage} "Movies retrieved successfully"
// @Failure 500 {object} models.APIResponse "Database error"
// @Router /movies [get]
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	filter := models.MovieFilter{
		Limit:  h.pageSize(getIntParam(r, "limit", 0)),
		Offset: getIntParam(r, "offset", 0),
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if year := getIntParam(r, "year", 0); year > 0 {
		filter.Year = &year
	}
	filter.Winner = getBoolParam(r, "winner")

	start := time.Now()
	movies, err := h.db.ListMovies(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to list movies", err)
		return
	}
	total, err := h.db.CountMovies(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to count movies", err)
		return
	}

	respondSuccess(w, http.StatusOK, models.MoviesPage{
		Movies: movies,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, time.Since(start))
}

// GetMovie handles GET /api/v1/movies/{id}
//
// @Summary Get a movie
// @Description Returns a single movie by ID
// @Tags Movies
// @Accept json
// @Produce json
// @Param id path string true "Movie ID (UUID)"
// @Success 200 {object} models.APIResponse{data=models.Movie} "Movie retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid movie ID"
// @Failure 404 {object} models.APIResponse "Movie not found"
// @Router /movies/{id} [get]
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	movie, err := h.db.GetMovie(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Movie not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to get movie", err)
		return
	}

	respondSuccess(w, http.StatusOK, movie, time.Since(start))
}

// CreateMovie handles POST /api/v1/movies
//
// @Summary Create a movie
// @Description Creates a new movie record
// @Tags Movies
// @Accept json
// @Produce json
// @Param request body MovieRequest true "Movie fields"
// @Success 201 {object} models.APIResponse{data=models.Movie} "Movie created successfully"
// @Failure 400 {object} models.APIResponse "Validation error"
// @Failure 500 {object} models.APIResponse "Database error"
// @Router /movies [post]
func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeMovieRequest(w, r)
	if !ok {
		return
	}

	movie := &models.Movie{
		Year:      req.Year,
		Title:     req.Title,
		Studios:   req.Studios,
		Producers: req.Producers,
		Winner:    req.Winner,
	}

	start := time.Now()
	if err := h.db.InsertMovie(r.Context(), movie); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to create movie", err)
		return
	}

	if h.audit != nil {
		h.audit.LogMovieCreated(r, movie.ID.String(), movie.Title)
	}

	respondSuccess(w, http.StatusCreated, movie, time.Since(start))
}

// UpdateMovie handles PUT /api/v1/movies/{id}
//
// @Summary Update a movie
// @Description Replaces an existing movie record
// @Tags Movies
// @Accept json
// @Produce json
// @Param id path string true "Movie ID (UUID)"
// @Param request body MovieRequest true "Movie fields"
// @Success 200 {object} models.APIResponse{data=models.Movie} "Movie updated successfully"
// @Failure 400 {object} models.APIResponse "Validation error"
// @Failure 404 {object} models.APIResponse "Movie not found"
// @Router /movies/{id} [put]
func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeMovieRequest(w, r)
	if !ok {
		return
	}

	movie := &models.Movie{
		ID:        id,
		Year:      req.Year,
		Title:     req.Title,
		Studios:   req.Studios,
		Producers: req.Producers,
		Winner:    req.Winner,
	}

	start := time.Now()
	if err := h.db.UpdateMovie(r.Context(), movie); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Movie not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to update movie", err)
		return
	}

	if h.audit != nil {
		h.audit.LogMovieUpdated(r, movie.ID.String(), movie.Title)
	}

	respondSuccess(w, http.StatusOK, movie, time.Since(start))
}

// DeleteMovie handles DELETE /api/v1/movies/{id}
//
// @Summary Delete a movie
// @Description Deletes a movie record by ID
// @Tags Movies
// @Accept json
// @Produce json
// @Param id path string true "Movie ID (UUID)"
// @Success 200 {object} models.APIResponse "Movie deleted successfully"
// @Failure 400 {object} models.APIResponse "Invalid movie ID"
// @Failure 404 {object} models.APIResponse "Movie not found"
// @Router /movies/{id} [delete]
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}

	start := time.Now()

	// Fetch first so the audit event can carry the title.
	movie, err := h.db.GetMovie(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Movie not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to get movie", err)
		return
	}

	if err := h.db.DeleteMovie(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Movie not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to delete movie", err)
		return
	}

	if h.audit != nil {
		h.audit.LogMovieDeleted(r, id.String(), movie.Title)
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
		"id":      id.String(),
	}, time.Since(start))
}

// movieID parses the movie ID from the URL, writing a 400 on failure.
func (h *Handler) movieID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid movie ID: must be a UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// decodeMovieRequest decodes and validates a movie body, writing a 400 on failure.
func (h *Handler) decodeMovieRequest(w http.ResponseWriter, r *http.Request) (*MovieRequest, bool) {
	var req MovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid request body: "+err.Error(), nil)
		return nil, false
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status: "error",
			Metadata: models.Metadata{
				Timestamp: time.Now().UTC(),
			},
			Error: apiErr,
		})
		return nil, false
	}

	return &req, true
}
