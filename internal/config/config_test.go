// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8088 {
		t.Errorf("expected port 8088, got %d", cfg.Server.Port)
	}
	if cfg.Artifacts.ModelFile != "trained_collaborative_model.json" {
		t.Errorf("unexpected model file: %s", cfg.Artifacts.ModelFile)
	}
	if cfg.Recommend.DefaultN != 10 || cfg.Recommend.MaxN != 50 {
		t.Errorf("unexpected n defaults: %d/%d", cfg.Recommend.DefaultN, cfg.Recommend.MaxN)
	}
	if cfg.Recommend.DefaultAlpha != 0.7 {
		t.Errorf("expected default alpha 0.7, got %g", cfg.Recommend.DefaultAlpha)
	}
	if cfg.TMDB.Enabled {
		t.Error("enrichment should be disabled by default")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigValidateCrossField(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "default n exceeds max n",
			mutate:  func(c *Config) { c.Recommend.DefaultN = 60 },
			wantErr: true,
		},
		{
			name:    "tmdb enabled without key",
			mutate:  func(c *Config) { c.TMDB.Enabled = true },
			wantErr: true,
		},
		{
			name: "tmdb enabled with key",
			mutate: func(c *Config) {
				c.TMDB.Enabled = true
				c.TMDB.APIKey = "secret"
			},
			wantErr: false,
		},
		{
			name: "tmdb zero rate",
			mutate: func(c *Config) {
				c.TMDB.Enabled = true
				c.TMDB.APIKey = "secret"
				c.TMDB.RequestsPerSecond = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"CINEPHILE_SERVER_PORT", "server.port"},
		{"CINEPHILE_SERVER_READ_TIMEOUT", "server.read_timeout"},
		{"CINEPHILE_TMDB_API_KEY", "tmdb.api_key"},
		{"CINEPHILE_RECOMMEND_DEFAULT_ALPHA", "recommend.default_alpha"},
		{"CINEPHILE_LOGGING_LEVEL", "logging.level"},
		{"CINEPHILE_API_RATE_LIMIT", "api.rate_limit"},
		{"CINEPHILE_UNKNOWN", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransform(tt.key); got != tt.want {
				t.Errorf("envTransform(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 8088 {
		t.Errorf("expected default port 8088, got %d", cfg.Server.Port)
	}
	if cfg.Recommend.MaxN != 50 {
		t.Errorf("expected default max_n 50, got %d", cfg.Recommend.MaxN)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CINEPHILE_SERVER_PORT", "9090")
	t.Setenv("CINEPHILE_RECOMMEND_DEFAULT_ALPHA", "0.5")
	t.Setenv("CINEPHILE_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected env port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Recommend.DefaultAlpha != 0.5 {
		t.Errorf("expected env alpha 0.5, got %g", cfg.Recommend.DefaultAlpha)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected env level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9500
recommend:
  default_n: 5
  max_n: 25
logging:
  level: warn
  format: console
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 9500 {
		t.Errorf("expected file port 9500, got %d", cfg.Server.Port)
	}
	if cfg.Recommend.DefaultN != 5 || cfg.Recommend.MaxN != 25 {
		t.Errorf("unexpected n config: %d/%d", cfg.Recommend.DefaultN, cfg.Recommend.MaxN)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("expected console format, got %s", cfg.Logging.Format)
	}
	// Defaults survive where the file is silent.
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("expected default read timeout, got %s", cfg.Server.ReadTimeout)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9500\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("CINEPHILE_SERVER_PORT", "9600")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 9600 {
		t.Errorf("expected env to beat file, got port %d", cfg.Server.Port)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	t.Setenv("CINEPHILE_LOGGING_LEVEL", "shouty")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation failure for bad level")
	}
}
