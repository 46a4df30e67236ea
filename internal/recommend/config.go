// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package recommend

import "fmt"

// Config contains operational parameters for the ranking engine.
type Config struct {
	// DefaultN is the list length used when a request does not specify one.
	DefaultN int `json:"default_n"`

	// MaxN caps the requested list length.
	MaxN int `json:"max_n"`

	// DefaultAlpha is the blending weight used when a request does not
	// specify one. Alpha is the proportion of the final score attributed to
	// the collaborative signal.
	DefaultAlpha float64 `json:"default_alpha"`

	// Workers bounds the parallel fan-out of the candidate scoring loop.
	// Zero means runtime.NumCPU.
	Workers int `json:"workers"`
}

// DefaultConfig returns production defaults matching the offline trainer.
func DefaultConfig() Config {
	return Config{
		DefaultN:     10,
		MaxN:         50,
		DefaultAlpha: 0.7,
		Workers:      0,
	}
}

// Validate checks parameter bounds.
func (c Config) Validate() error {
	if c.MaxN <= 0 {
		return fmt.Errorf("max_n must be positive, got %d", c.MaxN)
	}
	if c.DefaultN <= 0 || c.DefaultN > c.MaxN {
		return fmt.Errorf("default_n must be in [1, %d], got %d", c.MaxN, c.DefaultN)
	}
	if c.DefaultAlpha < 0 || c.DefaultAlpha > 1 {
		return fmt.Errorf("default_alpha must be in [0, 1], got %g", c.DefaultAlpha)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}
