// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package enrich

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/abdul1ah/cinephile/internal/cache"
	"github.com/abdul1ah/cinephile/internal/config"
	"github.com/abdul1ah/cinephile/internal/logging"
	"github.com/abdul1ah/cinephile/internal/metrics"
)

// Source fetches movie details from an upstream provider. Implemented by
// TMDBClient in production and mocks in tests.
type Source interface {
	GetMovie(ctx context.Context, movieID int) (*Movie, error)
	PosterURL(m *Movie) string
}

// Enricher resolves movie details for recommendation responses.
// A nil result with nil error means details are not available; callers
// degrade to artifact metadata.
type Enricher interface {
	Lookup(ctx context.Context, movieID int) *Movie
	PosterURL(m *Movie) string
}

// Disabled is the Enricher used when TMDB integration is off.
type Disabled struct{}

// Lookup always reports no details.
func (Disabled) Lookup(ctx context.Context, movieID int) *Movie { return nil }

// PosterURL always returns "".
func (Disabled) PosterURL(m *Movie) string { return "" }

// CachedEnricher layers an in-memory LRU and an optional disk store in
// front of the upstream source. All failures are absorbed: enrichment
// never fails a recommendation request.
type CachedEnricher struct {
	source Source
	memory *cache.LRU[*Movie]
	disk   *Store // nil when no cache_dir configured
	logger zerolog.Logger
}

// New builds the Enricher for the given configuration. When enrichment is
// disabled it returns Disabled; when a cache_dir is set the disk tier is
// opened there (a disk open failure degrades to memory-only with a warning).
func New(cfg config.TMDBConfig) Enricher {
	if !cfg.Enabled {
		return Disabled{}
	}

	logger := logging.Logger().With().Str("component", "enrich").Logger()

	var disk *Store
	if cfg.CacheDir != "" {
		var err error
		disk, err = NewStore(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			logger.Warn().Err(err).Str("dir", cfg.CacheDir).
				Msg("Disk cache unavailable, using memory tier only")
			disk = nil
		}
	}

	return &CachedEnricher{
		source: NewTMDBClient(cfg),
		memory: cache.NewLRU[*Movie](cfg.CacheSize, cfg.CacheTTL),
		disk:   disk,
		logger: logger,
	}
}

// NewCached builds a CachedEnricher over an explicit source and tiers.
// Used by tests and by callers that manage the store lifecycle themselves.
func NewCached(source Source, memory *cache.LRU[*Movie], disk *Store) *CachedEnricher {
	return &CachedEnricher{
		source: source,
		memory: memory,
		disk:   disk,
		logger: logging.Logger().With().Str("component", "enrich").Logger(),
	}
}

// CleanupExpired evicts expired entries from the memory tier and returns
// the number removed. The disk tier expires entries on its own via TTLs.
func (e *CachedEnricher) CleanupExpired() int {
	return e.memory.CleanupExpired()
}

// Lookup returns movie details from the first tier that has them, filling
// upper tiers on the way back. Returns nil when no tier can serve the ID.
func (e *CachedEnricher) Lookup(ctx context.Context, movieID int) *Movie {
	key := strconv.Itoa(movieID)

	if movie, ok := e.memory.Get(key); ok {
		metrics.RecordEnrichmentHit("memory")
		return movie
	}

	if e.disk != nil {
		if movie, ok := e.disk.Get(movieID); ok {
			metrics.RecordEnrichmentHit("disk")
			e.memory.Add(key, movie)
			return movie
		}
	}

	metrics.RecordEnrichmentMiss()

	movie, err := e.source.GetMovie(ctx, movieID)
	if err != nil {
		e.logger.Debug().Int("movie_id", movieID).Err(err).
			Msg("Enrichment lookup failed, serving artifact metadata only")
		return nil
	}

	e.memory.Add(key, movie)
	if e.disk != nil {
		e.disk.Set(movieID, movie)
	}
	return movie
}

// PosterURL delegates to the upstream source.
func (e *CachedEnricher) PosterURL(m *Movie) string {
	return e.source.PosterURL(m)
}

// Close releases the disk tier, if any.
func (e *CachedEnricher) Close() error {
	if e.disk == nil {
		return nil
	}
	return e.disk.Close()
}

// Warm pre-populates the cache for a set of movie IDs, stopping early on
// context cancellation. Used at startup for the most popular titles.
func (e *CachedEnricher) Warm(ctx context.Context, movieIDs []int) {
	start := time.Now()
	warmed := 0
	for _, id := range movieIDs {
		if ctx.Err() != nil {
			break
		}
		if e.Lookup(ctx, id) != nil {
			warmed++
		}
	}
	e.logger.Info().
		Int("requested", len(movieIDs)).
		Int("warmed", warmed).
		Dur("elapsed", time.Since(start)).
		Msg("Enrichment cache warm complete")
}
