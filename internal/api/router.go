// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abdul1ah/cinephile/internal/config"
	"github.com/abdul1ah/cinephile/internal/metrics"
	"github.com/abdul1ah/cinephile/internal/middleware"
)

// Router wires handlers and middleware into the served http.Handler.
type Router struct {
	handler *Handler
	cfg     config.APIConfig
}

// NewRouter creates a router for the given handler and API configuration.
func NewRouter(handler *Handler, cfg config.APIConfig) *Router {
	return &Router{
		handler: handler,
		cfg:     cfg,
	}
}

// Setup configures all routes and returns the root handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))

	if router.cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(router.cfg.RequestTimeout))
	}

	window := router.cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}

	// Health endpoints get permissive rate limiting so monitoring can poll
	// them frequently.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, window))
		r.Get("/", router.handler.Health)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Data endpoints share the configured rate limit and are instrumented.
	// A non-positive rate limit disables limiting (used in tests).
	r.Route("/api/v1", func(r chi.Router) {
		if router.cfg.RateLimit > 0 {
			r.Use(httprate.Limit(
				router.cfg.RateLimit,
				window,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(rateLimitExceeded),
			))
		}
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Get("/recommendations/user/{userID}", router.handler.Recommendations)
		r.Get("/users/{userID}/history", router.handler.UserHistory)
		r.Get("/search", router.handler.Search)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// rateLimitExceeded writes the envelope-formatted 429 response.
func rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
	NewResponseWriter(w, r).Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, "rate limit exceeded")
}
