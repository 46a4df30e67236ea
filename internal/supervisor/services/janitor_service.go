// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper removes expired entries from a cache and reports how many it
// evicted. Satisfied by *cache.LRU.
type Sweeper interface {
	CleanupExpired() int
}

// JanitorService periodically sweeps expired entries out of a cache.
//
// The enrichment memory cache expires entries lazily on Get, which leaves
// entries that are never read again occupying capacity until eviction.
// The janitor reclaims them on a fixed interval instead.
type JanitorService struct {
	sweeper  Sweeper
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewJanitorService creates a janitor sweeping sweeper every interval.
// Intervals <= 0 fall back to 5 minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewJanitorService(sweeper Sweeper, interval time.Duration, logger zerolog.Logger) *JanitorService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &JanitorService{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger.With().Str("service", "cache-janitor").Logger(),
		name:     "cache-janitor",
	}
}

// Serve implements suture.Service. It sweeps on every tick until the
// context is canceled.
func (j *JanitorService) Serve(ctx context.Context) error {
	j.logger.Info().
		Dur("interval", j.interval).
		Msg("cache janitor starting")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("cache janitor shutting down")
			return ctx.Err()

		case <-ticker.C:
			if removed := j.sweeper.CleanupExpired(); removed > 0 {
				j.logger.Debug().
					Int("removed", removed).
					Msg("swept expired cache entries")
			}
		}
	}
}

// String returns the service name for logging.
func (j *JanitorService) String() string {
	return j.name
}
