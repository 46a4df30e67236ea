// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

/*
Package metrics provides Prometheus metrics collection and export.

All metrics register on the default registry via promauto at package init
and are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8088/metrics

# Available Metrics

API:
  - api_requests_total: total requests (counter; method, endpoint, status_code)
  - api_request_duration_seconds: request latency (histogram; method, endpoint)
  - api_active_requests: in-flight requests (gauge)
  - api_rate_limit_hits_total: rate limit rejections (counter; endpoint)

Recommendation:
  - recommendation_duration_seconds: ranking latency (histogram)
  - recommendation_requests_total: requests by result (counter; result)
  - recommendation_candidates_scored_total / _excluded_total: scoring outcomes
  - recommendation_content_fallbacks_total: neutral content fallbacks
  - recommendation_candidate_pool_size: unseen candidates per request (histogram)

Artifacts:
  - artifact_loaded: per-artifact load status (gauge; artifact)

Enrichment:
  - enrichment_cache_hits_total / enrichment_cache_misses_total
  - enrichment_api_call_duration_seconds: TMDB call latency (histogram)
  - enrichment_errors_total: failures by type (counter; error_type)
  - circuit_breaker_state / circuit_breaker_requests_total

Record* helpers wrap the raw collectors so call sites stay one-liners and
label sets stay consistent.
*/
package metrics
