// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

// Command server runs the Cinephile recommendation API.
//
// Startup sequence:
//  1. Load configuration (defaults, optional YAML file, CINEPHILE_* env)
//  2. Initialize structured logging
//  3. Load serving artifacts (model, similarity matrix, index, metadata)
//  4. Build the recommendation engine and optional TMDB enrichment
//  5. Assemble the HTTP router and start it under the supervisor tree
//
// The process shuts down gracefully on SIGINT or SIGTERM: the HTTP server
// drains in-flight requests within the configured shutdown timeout, the
// enrichment disk cache is closed, and services that fail to stop are
// reported before exit.
//
// Missing artifacts are not fatal. The service starts degraded and answers
// 503 on recommendation routes until a model is present; /api/v1/health
// reports which artifacts loaded.
package main
