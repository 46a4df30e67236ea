// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

// Package artifact loads the immutable serving artifacts produced by the
// offline training pipeline: the collaborative SVD model, the item
// similarity matrix, the item index map, and the movie metadata.
//
// Each artifact is loaded independently and a missing or unreadable file is
// recorded as absent rather than failing the whole load. This lets partial
// deployments (for example a content model that has not been trained yet)
// serve degraded functionality instead of failing outright. Absence is
// surfaced only when a dependent operation is invoked.
//
// The loaded Context is immutable and shared read-only across all requests
// for the lifetime of the process; there is no refresh.
package artifact
