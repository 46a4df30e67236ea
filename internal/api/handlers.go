// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abdul1ah/cinephile/internal/artifact"
	"github.com/abdul1ah/cinephile/internal/config"
	"github.com/abdul1ah/cinephile/internal/enrich"
	"github.com/abdul1ah/cinephile/internal/logging"
	"github.com/abdul1ah/cinephile/internal/metrics"
	"github.com/abdul1ah/cinephile/internal/recommend"
	"github.com/abdul1ah/cinephile/internal/validation"
)

// defaultSearchLimit bounds search responses when no limit is given.
const defaultSearchLimit = 20

// maxSearchLimit is the largest accepted search limit.
const maxSearchLimit = 100

// Handler serves all API endpoints.
type Handler struct {
	engine    *recommend.Engine
	artifacts *artifact.Context
	enricher  enrich.Enricher
	cfg       *config.Config
	startTime time.Time
}

// NewHandler creates a Handler over the loaded artifacts and ranking engine.
func NewHandler(engine *recommend.Engine, artifacts *artifact.Context, enricher enrich.Enricher, cfg *config.Config) *Handler {
	return &Handler{
		engine:    engine,
		artifacts: artifacts,
		enricher:  enricher,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// HealthData is the payload of the health endpoint.
type HealthData struct {
	Status        string          `json:"status"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Movies        int             `json:"movies"`
	Artifacts     ArtifactStatus  `json:"artifacts"`
	Stats         recommend.Stats `json:"stats"`
}

// ArtifactStatus reports which serving artifacts are loaded.
type ArtifactStatus struct {
	Model      bool `json:"model"`
	Similarity bool `json:"similarity"`
	Index      bool `json:"index"`
	Metadata   bool `json:"metadata"`
}

// Health reports service status and artifact availability. Always 200;
// a degraded service is still alive.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !h.engine.Ready() {
		status = "degraded"
	}

	NewResponseWriter(w, r).Success(HealthData{
		Status:        status,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Movies:        h.engine.Universe(),
		Artifacts: ArtifactStatus{
			Model:      h.artifacts.HasModel(),
			Similarity: h.artifacts.HasSimilarity(),
			Index:      h.artifacts.HasIndex(),
			Metadata:   h.artifacts.HasMetadata(),
		},
		Stats: h.engine.GetStats(),
	})
}

// HealthReady reports readiness: 200 once the collaborative model is
// loaded, 503 before then. Load balancers key on this.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.engine.Ready() {
		rw.ServiceUnavailable("collaborative model not loaded")
		return
	}
	rw.Success(map[string]bool{"ready": true})
}

// recommendParams are the validated inputs of the recommendations endpoint.
type recommendParams struct {
	UserID int     `validate:"required,min=1"`
	N      int     `validate:"min=1"`
	Alpha  float64 `validate:"min=0,max=1"`
}

// RecommendationItem is one ranked movie in a recommendations response.
type RecommendationItem struct {
	ItemID        int     `json:"item_id"`
	Score         float64 `json:"score"`
	Collaborative float64 `json:"collaborative"`
	Content       float64 `json:"content"`

	// Artifact metadata, present when the metadata artifact is loaded.
	Title  string `json:"title,omitempty"`
	Genres string `json:"genres,omitempty"`
	Cast   string `json:"cast,omitempty"`

	// Details carries TMDB enrichment when available.
	Details *MovieDetails `json:"details,omitempty"`
}

// MovieDetails is the TMDB enrichment attached to a recommendation.
type MovieDetails struct {
	Overview    string  `json:"overview,omitempty"`
	Tagline     string  `json:"tagline,omitempty"`
	PosterURL   string  `json:"poster_url,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
	Runtime     int     `json:"runtime,omitempty"`
}

// RecommendationsData is the payload of the recommendations endpoint.
type RecommendationsData struct {
	UserID          int                  `json:"user_id"`
	Alpha           float64              `json:"alpha"`
	Count           int                  `json:"count"`
	Candidates      int                  `json:"candidates"`
	Excluded        int                  `json:"excluded"`
	Fallbacks       int                  `json:"fallbacks"`
	Recommendations []RecommendationItem `json:"recommendations"`
}

// Recommendations returns the top-n ranked unseen movies for a user.
// Unknown users get an empty list; a missing model gets 503.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	start := time.Now()

	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		rw.BadRequest("userID must be an integer")
		return
	}

	params := recommendParams{
		UserID: userID,
		N:      h.cfg.Recommend.DefaultN,
		Alpha:  h.cfg.Recommend.DefaultAlpha,
	}

	if raw := r.URL.Query().Get("n"); raw != "" {
		params.N, err = strconv.Atoi(raw)
		if err != nil {
			rw.BadRequest("n must be an integer")
			return
		}
	}
	if raw := r.URL.Query().Get("alpha"); raw != "" {
		params.Alpha, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			rw.BadRequest("alpha must be a number")
			return
		}
	}

	if verr := validation.ValidateStruct(&params); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}
	if params.N > h.cfg.Recommend.MaxN {
		rw.BadRequest(fmt.Sprintf("n must be at most %d", h.cfg.Recommend.MaxN))
		return
	}

	result, err := h.engine.Recommend(r.Context(), params.UserID, params.N, params.Alpha)
	if err != nil {
		if errors.Is(err, recommend.ErrModelUnavailable) {
			metrics.RecordRecommendation("unavailable", time.Since(start), 0, 0, 0)
			rw.ServiceUnavailable("recommendation model is not loaded")
			return
		}
		metrics.RecordRecommendation("error", time.Since(start), 0, 0, 0)
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).Int("user_id", params.UserID).
			Msg("Recommendation request failed")
		rw.InternalError("failed to compute recommendations")
		return
	}

	outcome := "ok"
	if result.Candidates == 0 && len(result.Items) == 0 {
		outcome = "unknown_user"
	}
	metrics.RecordRecommendation(outcome, time.Since(start), result.Candidates, result.Excluded, result.Fallbacks)

	items := make([]RecommendationItem, len(result.Items))
	for i, scored := range result.Items {
		items[i] = h.decorate(r, scored)
	}

	rw.Success(RecommendationsData{
		UserID:          params.UserID,
		Alpha:           params.Alpha,
		Count:           len(items),
		Candidates:      result.Candidates,
		Excluded:        result.Excluded,
		Fallbacks:       result.Fallbacks,
		Recommendations: items,
	})
}

// decorate attaches artifact metadata and TMDB enrichment to a scored item.
func (h *Handler) decorate(r *http.Request, scored recommend.ScoredItem) RecommendationItem {
	item := RecommendationItem{
		ItemID:        scored.ItemID,
		Score:         scored.Score,
		Collaborative: scored.Collaborative,
		Content:       scored.Content,
	}

	if meta, ok := h.artifacts.Metadata[scored.ItemID]; ok {
		item.Title = meta.Title
		item.Genres = meta.Genres
		item.Cast = meta.CastNames
	}

	if movie := h.enricher.Lookup(r.Context(), scored.ItemID); movie != nil {
		item.Details = &MovieDetails{
			Overview:    movie.Overview,
			Tagline:     movie.Tagline,
			PosterURL:   h.enricher.PosterURL(movie),
			ReleaseDate: movie.ReleaseDate,
			VoteAverage: movie.VoteAverage,
			Runtime:     movie.Runtime,
		}
		if item.Title == "" {
			item.Title = movie.Title
		}
	}

	return item
}

// HistoryItem is one rated movie in a user history response.
type HistoryItem struct {
	ItemID int     `json:"item_id"`
	Rating float64 `json:"rating"`
	Title  string  `json:"title,omitempty"`
}

// HistoryData is the payload of the user history endpoint.
type HistoryData struct {
	UserID  int           `json:"user_id"`
	Count   int           `json:"count"`
	Ratings []HistoryItem `json:"ratings"`
}

// UserHistory returns the ratings the model has for a user. Unknown users
// get an empty list, mirroring the recommendations endpoint.
func (h *Handler) UserHistory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || userID < 1 {
		rw.BadRequest("userID must be a positive integer")
		return
	}

	history, err := h.engine.History(userID)
	if err != nil {
		if errors.Is(err, recommend.ErrModelUnavailable) {
			rw.ServiceUnavailable("recommendation model is not loaded")
			return
		}
		rw.InternalError("failed to load user history")
		return
	}

	ratings := make([]HistoryItem, len(history))
	for i, rating := range history {
		ratings[i] = HistoryItem{
			ItemID: rating.ItemID,
			Rating: rating.Value,
			Title:  h.artifacts.Metadata[rating.ItemID].Title,
		}
	}

	rw.Success(HistoryData{
		UserID:  userID,
		Count:   len(ratings),
		Ratings: ratings,
	})
}

// SearchResult is one catalog match.
type SearchResult struct {
	ItemID int    `json:"item_id"`
	Title  string `json:"title"`
	Genres string `json:"genres,omitempty"`
}

// SearchData is the payload of the search endpoint.
type SearchData struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []SearchResult `json:"results"`
}

// Search finds catalog movies whose title contains the query,
// case-insensitively. Results are ordered by ascending movie ID so
// repeated queries are stable.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		rw.BadRequest("query parameter is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxSearchLimit {
			rw.BadRequest(fmt.Sprintf("limit must be between 1 and %d", maxSearchLimit))
			return
		}
		limit = parsed
	}

	needle := strings.ToLower(query)

	ids := make([]int, 0, len(h.artifacts.Metadata))
	for id, meta := range h.artifacts.Metadata {
		if strings.Contains(strings.ToLower(meta.Title), needle) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	if len(ids) > limit {
		ids = ids[:limit]
	}

	results := make([]SearchResult, len(ids))
	for i, id := range ids {
		meta := h.artifacts.Metadata[id]
		results[i] = SearchResult{
			ItemID: id,
			Title:  meta.Title,
			Genres: meta.Genres,
		}
	}

	rw.Success(SearchData{
		Query:   query,
		Count:   len(results),
		Results: results,
	})
}
