// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

// Package services provides suture.Service wrappers for the components the
// supervisor tree manages.
//
// Each wrapper translates a component's own lifecycle (a blocking
// ListenAndServe, a periodic tick) into suture's context-aware Serve
// contract: block until the context is canceled, then shut down cleanly
// and return ctx.Err().
//
// Wrappers accept small interfaces rather than concrete types so tests
// can supply doubles without binding ports or opening databases.
package services
