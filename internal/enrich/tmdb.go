// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/abdul1ah/cinephile/internal/config"
	"github.com/abdul1ah/cinephile/internal/logging"
	"github.com/abdul1ah/cinephile/internal/metrics"
)

// maxErrorBodySize caps how much of an error response body is read for
// diagnostics.
const maxErrorBodySize = 64 * 1024

// ErrNotFound is returned when TMDB has no movie for the requested ID.
var ErrNotFound = errors.New("movie not found")

// Movie holds the TMDB movie details used to decorate recommendations.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	Tagline     string  `json:"tagline"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Runtime     int     `json:"runtime"`
	Genres      []Genre `json:"genres"`
}

// Genre is a TMDB genre tag.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TMDBClient fetches movie details from the TMDB v3 API with rate limiting
// and circuit breaker protection.
//
// The circuit breaker uses real time for its interval and timeout
// calculations. Tests should mock at the Source interface, not the breaker.
type TMDBClient struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	client       *http.Client
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker[*Movie]
}

const breakerName = "tmdb-api"

// NewTMDBClient creates a TMDB client from configuration.
// Circuit breaker: max 3 half-open requests, 1 minute measurement window,
// 2 minute recovery timeout, opens at 60% failures over 10+ requests.
func NewTMDBClient(cfg config.TMDBConfig) *TMDBClient {
	metrics.RecordBreakerState(breakerName, int(gobreaker.StateClosed))

	breaker := gobreaker.NewCircuitBreaker[*Movie](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("component", "enrich").
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("TMDB circuit breaker state transition")
			metrics.RecordBreakerState(name, int(to))
		},
	})

	return &TMDBClient{
		baseURL:      cfg.BaseURL,
		imageBaseURL: cfg.ImageBaseURL,
		apiKey:       cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		breaker: breaker,
	}
}

// GetMovie fetches details for a TMDB movie ID.
func (c *TMDBClient) GetMovie(ctx context.Context, movieID int) (*Movie, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordEnrichmentCall(0, "rate_limit")
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	movie, err := c.breaker.Execute(func() (*Movie, error) {
		return c.fetch(ctx, movieID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordBreakerRequest(breakerName, "rejected")
			metrics.RecordEnrichmentCall(0, "breaker_open")
			return nil, fmt.Errorf("tmdb unavailable: %w", err)
		}
		metrics.RecordBreakerRequest(breakerName, "failure")
		return nil, err
	}

	metrics.RecordBreakerRequest(breakerName, "success")
	return movie, nil
}

// PosterURL builds the full poster image URL for a movie, or "" when the
// movie has no poster.
func (c *TMDBClient) PosterURL(m *Movie) string {
	if m == nil || m.PosterPath == "" {
		return ""
	}
	return fmt.Sprintf("%s/w500%s", c.imageBaseURL, m.PosterPath)
}

func (c *TMDBClient) fetch(ctx context.Context, movieID int) (*Movie, error) {
	reqURL := fmt.Sprintf("%s/movie/%d?api_key=%s", c.baseURL, movieID, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordEnrichmentCall(time.Since(start), "http")
		return nil, fmt.Errorf("tmdb request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fallthrough to decode
	case http.StatusNotFound:
		metrics.RecordEnrichmentCall(time.Since(start), "")
		return nil, ErrNotFound
	default:
		body := readBodyForError(resp.Body)
		metrics.RecordEnrichmentCall(time.Since(start), "http")
		return nil, fmt.Errorf("tmdb returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var movie Movie
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		metrics.RecordEnrichmentCall(time.Since(start), "decode")
		return nil, fmt.Errorf("decode tmdb response: %w", err)
	}

	metrics.RecordEnrichmentCall(time.Since(start), "")
	return &movie, nil
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
