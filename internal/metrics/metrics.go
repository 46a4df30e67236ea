// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Recommendation scoring behavior (candidates, exclusions, fallbacks)
// - Artifact availability
// - Metadata enrichment (cache efficiency, upstream calls, circuit breaker)

var (
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

	// Recommendation Metrics
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation ranking in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"result"}, // "ok", "unknown_user", "unavailable", "error"
	)

	CandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_candidates_scored_total",
			Help: "Total number of candidate items scored",
		},
	)

	CandidatesExcluded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_candidates_excluded_total",
			Help: "Total number of candidates dropped after collaborative scoring failed",
		},
	)

	ContentFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_content_fallbacks_total",
			Help: "Total number of candidates scored with the neutral content fallback",
		},
	)

	CandidatePoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_candidate_pool_size",
			Help:    "Number of unseen candidates per recommendation request",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
	)

	// Artifact Metrics
	ArtifactLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "artifact_loaded",
			Help: "Whether a serving artifact loaded successfully (1) or not (0)",
		},
		[]string{"artifact"}, // "model", "similarity", "index", "metadata"
	)

	// Enrichment Metrics
	EnrichmentCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_cache_hits_total",
			Help: "Total number of enrichment cache hits",
		},
		[]string{"tier"}, // "memory", "disk"
	)

	EnrichmentCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enrichment_cache_misses_total",
			Help: "Total number of enrichment cache misses (upstream fetch required)",
		},
	)

	EnrichmentAPICallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_api_call_duration_seconds",
			Help:    "Duration of TMDB API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	EnrichmentErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_errors_total",
			Help: "Total number of enrichment failures",
		},
		[]string{"error_type"}, // "timeout", "http", "decode", "breaker_open", "rate_limit"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)
)

// RecordAPIRequest records an API request with its response code and latency.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records the outcome of one ranking request.
func RecordRecommendation(result string, duration time.Duration, candidates, excluded, fallbacks int) {
	RecommendationRequests.WithLabelValues(result).Inc()
	RecommendationDuration.Observe(duration.Seconds())
	if candidates > 0 {
		CandidatePoolSize.Observe(float64(candidates))
	}
	CandidatesScored.Add(float64(candidates))
	CandidatesExcluded.Add(float64(excluded))
	ContentFallbacks.Add(float64(fallbacks))
}

// RecordArtifact records whether an artifact loaded.
func RecordArtifact(name string, loaded bool) {
	v := 0.0
	if loaded {
		v = 1.0
	}
	ArtifactLoaded.WithLabelValues(name).Set(v)
}

// RecordEnrichmentHit records a cache hit in the given tier.
func RecordEnrichmentHit(tier string) {
	EnrichmentCacheHits.WithLabelValues(tier).Inc()
}

// RecordEnrichmentMiss records a cache miss.
func RecordEnrichmentMiss() {
	EnrichmentCacheMisses.Inc()
}

// RecordEnrichmentCall records an upstream TMDB call.
func RecordEnrichmentCall(duration time.Duration, errType string) {
	EnrichmentAPICallDuration.Observe(duration.Seconds())
	if errType != "" {
		EnrichmentErrors.WithLabelValues(errType).Inc()
	}
}

// RecordBreakerState records a circuit breaker state change.
// State encoding matches gobreaker: 0=closed, 1=half-open, 2=open.
func RecordBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordBreakerRequest records a request routed through a circuit breaker.
func RecordBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}
