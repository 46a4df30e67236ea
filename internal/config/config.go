// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

// Package config provides layered application configuration via Koanf v2.
//
// Loading order (highest priority wins):
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables with the CINEPHILE_ prefix
//     (CINEPHILE_SERVER_PORT -> server.port)
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Recommend RecommendConfig `koanf:"recommend"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// ArtifactsConfig locates the serving artifacts written by the offline
// training pipeline.
type ArtifactsConfig struct {
	Dir            string `koanf:"dir" validate:"required"`
	ModelFile      string `koanf:"model_file"`
	SimilarityFile string `koanf:"similarity_file"`
	IndexFile      string `koanf:"index_file"`
	MetadataFile   string `koanf:"metadata_file"`
}

// RecommendConfig configures the ranking engine.
type RecommendConfig struct {
	DefaultN     int     `koanf:"default_n" validate:"min=1"`
	MaxN         int     `koanf:"max_n" validate:"min=1"`
	DefaultAlpha float64 `koanf:"default_alpha" validate:"min=0,max=1"`
	Workers      int     `koanf:"workers" validate:"min=0"`
}

// TMDBConfig configures the external metadata enrichment collaborator.
// Enrichment is optional; without an API key results carry artifact
// metadata only.
type TMDBConfig struct {
	Enabled           bool          `koanf:"enabled"`
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url"`
	ImageBaseURL      string        `koanf:"image_base_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	CacheSize         int           `koanf:"cache_size"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	CacheDir          string        `koanf:"cache_dir"`
}

// APIConfig configures the HTTP API surface.
type APIConfig struct {
	RateLimit       int           `koanf:"rate_limit" validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8088,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Artifacts: ArtifactsConfig{
			Dir:            "saved_models",
			ModelFile:      "trained_collaborative_model.json",
			SimilarityFile: "hybrid_similarity_matrix.json",
			IndexFile:      "hybrid_movie_index_map.json",
			MetadataFile:   "hybrid_movie_metadata.json",
		},
		Recommend: RecommendConfig{
			DefaultN:     10,
			MaxN:         50,
			DefaultAlpha: 0.7,
			Workers:      0, // 0 = runtime.NumCPU
		},
		TMDB: TMDBConfig{
			Enabled:           false,
			APIKey:            "",
			BaseURL:           "https://api.themoviedb.org/3",
			ImageBaseURL:      "https://image.tmdb.org/t/p",
			Timeout:           5 * time.Second,
			RequestsPerSecond: 4,
			CacheSize:         10000,
			CacheTTL:          24 * time.Hour,
			CacheDir:          "", // empty = in-memory cache only
		},
		API: APIConfig{
			RateLimit:       300,
			RateLimitWindow: time.Minute,
			AllowedOrigins:  []string{"*"},
			RequestTimeout:  10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate applies cross-field checks the struct tags cannot express.
func (c *Config) Validate() error {
	if c.Recommend.DefaultN > c.Recommend.MaxN {
		return fmt.Errorf("recommend.default_n (%d) exceeds recommend.max_n (%d)", c.Recommend.DefaultN, c.Recommend.MaxN)
	}
	if c.TMDB.Enabled && c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb.enabled requires tmdb.api_key")
	}
	if c.TMDB.Enabled && c.TMDB.RequestsPerSecond <= 0 {
		return fmt.Errorf("tmdb.requests_per_second must be positive, got %g", c.TMDB.RequestsPerSecond)
	}
	return nil
}
