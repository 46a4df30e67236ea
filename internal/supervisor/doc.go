// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

// Package supervisor builds the suture supervision tree that keeps the
// service's long-running components alive.
//
// The tree has two layers under a single root:
//
//   - maintenance: background housekeeping (enrichment cache janitor)
//   - api: the HTTP server
//
// Layering isolates failures. A crashing janitor restarts on its own
// backoff schedule without ever touching the API layer, and vice versa.
//
// Supervisor events are logged through sutureslog, bridged onto the
// service's zerolog output via logging.NewSlogLogger.
//
// Usage:
//
//	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
//	if err != nil {
//		return err
//	}
//	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
//	errCh := tree.ServeBackground(ctx)
package supervisor
