// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

/*
Package enrich decorates recommendation results with movie details from
the TMDB API.

Enrichment is strictly optional: the ranking pipeline never depends on it,
and any enrichment failure degrades to artifact-only metadata rather than
failing the request.

# Resilience

The TMDB client is wrapped in several protective layers:

  - Rate limiter (golang.org/x/time/rate) keeps request volume inside
    TMDB's published limits.
  - Circuit breaker (sony/gobreaker) stops hammering TMDB during outages;
    opens after a 60% failure rate over at least 10 requests.
  - Per-call timeout bounds the latency any single enrichment can add.

# Caching

Lookups go through two tiers before reaching TMDB:

  - In-memory LRU with TTL (internal/cache), sized by tmdb.cache_size.
  - Optional BadgerDB disk cache (tmdb.cache_dir) that survives restarts.

Both tiers store the decoded movie details keyed by TMDB movie ID.
*/
package enrich
