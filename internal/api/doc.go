// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

/*
Package api provides the HTTP surface of the recommendation service,
built on the Chi router.

# Endpoints

	GET /api/v1/health                            service health and artifact status
	GET /api/v1/health/ready                      readiness (503 until the model is loaded)
	GET /api/v1/recommendations/user/{userID}     ranked recommendations (?n=, ?alpha=)
	GET /api/v1/users/{userID}/history            the ratings backing a user's recommendations
	GET /api/v1/search                            title search over the catalog (?query=, ?limit=)
	GET /metrics                                  Prometheus metrics

# Response Format

All endpoints use a standardized envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "..."}}

# Error Semantics

A request for an unknown user succeeds with an empty recommendation list;
only a missing collaborative model is an error (503 SERVICE_UNAVAILABLE).
Invalid parameters are rejected with 400 before any scoring work starts.
*/
package api
