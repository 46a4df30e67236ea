// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

/*
Package middleware provides HTTP middleware shared by all API routes.

All middleware is Chi-compatible (func(http.Handler) http.Handler) and
composes with go-chi's built-in stack:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

RequestID tags each request with an X-Request-ID (honoring an upstream
value when present) and threads it into the logging context so every log
line for a request carries the same id.

PrometheusMetrics records request counts, latency and in-flight gauge per
method and route.

Compression gzips responses for clients that accept it; recommendation
payloads with enriched metadata compress well.
*/
package middleware
