// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul1ah/cinephile/internal/api"
	"github.com/abdul1ah/cinephile/internal/artifact"
	"github.com/abdul1ah/cinephile/internal/config"
	"github.com/abdul1ah/cinephile/internal/enrich"
	"github.com/abdul1ah/cinephile/internal/logging"
	"github.com/abdul1ah/cinephile/internal/metrics"
	"github.com/abdul1ah/cinephile/internal/recommend"
	"github.com/abdul1ah/cinephile/internal/supervisor"
	"github.com/abdul1ah/cinephile/internal/supervisor/services"
)

// janitorInterval is how often expired enrichment cache entries are swept.
const janitorInterval = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cinephile: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Str("artifacts_dir", cfg.Artifacts.Dir).
		Bool("enrichment", cfg.TMDB.Enabled).
		Msg("Starting cinephile")

	arts, err := artifact.Load(artifact.Config{
		Dir:            cfg.Artifacts.Dir,
		ModelFile:      cfg.Artifacts.ModelFile,
		SimilarityFile: cfg.Artifacts.SimilarityFile,
		IndexFile:      cfg.Artifacts.IndexFile,
		MetadataFile:   cfg.Artifacts.MetadataFile,
	}, logger)
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}

	metrics.RecordArtifact("model", arts.HasModel())
	metrics.RecordArtifact("similarity", arts.HasSimilarity())
	metrics.RecordArtifact("index", arts.HasIndex())
	metrics.RecordArtifact("metadata", arts.HasMetadata())

	if !arts.HasModel() {
		logger.Warn().Msg("No collaborative model loaded, recommendation routes will answer 503")
	}

	engine, err := recommend.NewEngine(recommend.Config{
		DefaultN:     cfg.Recommend.DefaultN,
		MaxN:         cfg.Recommend.MaxN,
		DefaultAlpha: cfg.Recommend.DefaultAlpha,
		Workers:      cfg.Recommend.Workers,
	}, arts.Artifacts(), logger)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	enricher := enrich.New(cfg.TMDB)

	handler := api.NewHandler(engine, arts, enricher, cfg)
	router := api.NewRouter(handler, cfg.API).Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("build supervisor tree: %w", err)
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	cached, isCached := enricher.(*enrich.CachedEnricher)
	if isCached {
		tree.AddMaintenanceService(services.NewJanitorService(cached, janitorInterval, logger))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := tree.ServeBackground(ctx)

	logger.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Supervisor tree stopped with error")
		}

	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("supervisor tree failed: %w", err)
		}
	}

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logger.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	if isCached {
		if err := cached.Close(); err != nil {
			logger.Warn().Err(err).Msg("Closing enrichment cache failed")
		}
	}

	logger.Info().Msg("Stopped gracefully")
	return nil
}
