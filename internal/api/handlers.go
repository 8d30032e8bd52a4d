// MyArk - Student Opportunity Discovery Platform
// Copyright 2026 MyArk (msbhamoo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msbhamoo/myark-final-sub005

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/msbhamoo/myark-final-sub005/internal/logging"
	"github.com/msbhamoo/myark-final-sub005/internal/metrics"
	"github.com/msbhamoo/myark-final-sub005/internal/models"
	"github.com/msbhamoo/myark-final-sub005/internal/recommend"
	"github.com/msbhamoo/myark-final-sub005/internal/validation"
)

// RecommendationEngine is the recommendation surface the handlers call.
// Satisfied by *recommend.Engine.
type RecommendationEngine interface {
	PersonalizedRecommendations(ctx context.Context, userID string, limit int) (*models.RecommendationsResponse, error)
	TrendingRecommendations(ctx context.Context, limit int) (*models.RecommendationsResponse, error)
	SimilarOpportunities(ctx context.Context, id string, limit int) ([]models.Opportunity, error)
	RelatedOpportunities(ctx context.Context, id string, limit int) ([]models.Opportunity, error)
}

// ViewTracker records opportunity views. Satisfied by
// *interests.Tracker.
type ViewTracker interface {
	TrackView(ctx context.Context, userID string, o *models.Opportunity, durationSeconds int) error
}

// Store is the storage surface the handlers use directly. Satisfied by
// *database.DB.
type Store interface {
	OpportunityByID(ctx context.Context, id string) (*models.Opportunity, error)
	IncrementOpportunityViews(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	engine  RecommendationEngine
	tracker ViewTracker
	store   Store
}

// NewHandlers wires the handler set.
func NewHandlers(engine RecommendationEngine, tracker ViewTracker, store Store) *Handlers {
	return &Handlers{engine: engine, tracker: tracker, store: store}
}

// Recommendations serves GET /api/v1/recommendations/user/{userID}.
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user id is required", nil)
		return
	}
	limit := getIntParam(r, "limit", 0)

	resp, err := h.engine.PersonalizedRecommendations(r.Context(), userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "RECOMMENDATION_ERROR",
			"failed to compute recommendations", err)
		return
	}

	metrics.RecommendationsServed.WithLabelValues(string(resp.Type)).Inc()
	metrics.RecommendationDuration.WithLabelValues(string(resp.Type)).Observe(time.Since(started).Seconds())
	respondData(w, http.StatusOK, resp, started)
}

// Trending serves GET /api/v1/recommendations/trending.
func (h *Handlers) Trending(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	limit := getIntParam(r, "limit", 0)

	resp, err := h.engine.TrendingRecommendations(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "RECOMMENDATION_ERROR",
			"failed to compute trending opportunities", err)
		return
	}

	metrics.RecommendationsServed.WithLabelValues(string(resp.Type)).Inc()
	metrics.RecommendationDuration.WithLabelValues(string(resp.Type)).Observe(time.Since(started).Seconds())
	respondData(w, http.StatusOK, resp, started)
}

// Similar serves GET /api/v1/opportunities/{id}/similar.
func (h *Handlers) Similar(w http.ResponseWriter, r *http.Request) {
	h.similarityList(w, r, h.engine.SimilarOpportunities)
}

// Related serves GET /api/v1/opportunities/{id}/related.
func (h *Handlers) Related(w http.ResponseWriter, r *http.Request) {
	h.similarityList(w, r, h.engine.RelatedOpportunities)
}

func (h *Handlers) similarityList(w http.ResponseWriter, r *http.Request,
	fetch func(ctx context.Context, id string, limit int) ([]models.Opportunity, error),
) {
	started := time.Now()
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "opportunity id is required", nil)
		return
	}
	limit := getIntParam(r, "limit", 0)

	items, err := fetch(r.Context(), id, limit)
	if err != nil {
		if errors.Is(err, recommend.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "opportunity not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "RECOMMENDATION_ERROR",
			"failed to compute similar opportunities", err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"items": items}, started)
}

// trackViewRequest is the POST /api/v1/views request body.
type trackViewRequest struct {
	UserID          string `json:"userId" validate:"required,max=128"`
	OpportunityID   string `json:"opportunityId" validate:"required,max=128"`
	DurationSeconds int    `json:"durationSeconds" validate:"gte=0,lte=86400"`
}

// TrackView serves POST /api/v1/views: it records the view in the
// user's interest profile and bumps the listing's view counter.
func (h *Handlers) TrackView(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req trackViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", err)
		return
	}
	if verr := validation.Struct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	opportunity, err := h.store.OpportunityByID(r.Context(), req.OpportunityID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to load opportunity", err)
		return
	}
	if opportunity == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "opportunity not found", nil)
		return
	}

	if err := h.tracker.TrackView(r.Context(), req.UserID, opportunity, req.DurationSeconds); err != nil {
		respondError(w, http.StatusInternalServerError, "TRACKING_ERROR", "failed to record view", err)
		return
	}
	if err := h.store.IncrementOpportunityViews(r.Context(), req.OpportunityID); err != nil {
		// The interest update already landed; a lost counter bump is
		// not worth failing the request.
		logging.Ctx(r.Context()).Warn().Err(err).
			Str("opportunity_id", req.OpportunityID).Msg("view counter increment failed")
	}

	metrics.ViewsTracked.Inc()
	respondData(w, http.StatusAccepted, map[string]string{"result": "recorded"}, started)
}

// Health serves GET /api/v1/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ok"
	httpStatus := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("health check database ping failed")
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}
	respondData(w, httpStatus, map[string]string{"status": status}, started)
}
