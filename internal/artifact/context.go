// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/abdul1ah/cinephile/internal/recommend"
)

// Config locates the artifact files on disk. File names default to the
// names the training pipeline writes.
type Config struct {
	// Dir is the directory holding the serving artifacts.
	Dir string `koanf:"dir"`

	// ModelFile is the collaborative SVD model artifact.
	ModelFile string `koanf:"model_file"`

	// SimilarityFile is the item-item similarity matrix artifact.
	SimilarityFile string `koanf:"similarity_file"`

	// IndexFile is the item index map artifact.
	IndexFile string `koanf:"index_file"`

	// MetadataFile is the movie metadata artifact.
	MetadataFile string `koanf:"metadata_file"`
}

// DefaultConfig returns the artifact names written by the training pipeline.
func DefaultConfig() Config {
	return Config{
		Dir:            "saved_models",
		ModelFile:      "trained_collaborative_model.json",
		SimilarityFile: "hybrid_similarity_matrix.json",
		IndexFile:      "hybrid_movie_index_map.json",
		MetadataFile:   "hybrid_movie_metadata.json",
	}
}

// Metadata is the display information for one movie. It is used only for
// enrichment and search, never for scoring.
type Metadata struct {
	Title     string `json:"title"`
	Genres    string `json:"genres"`
	CastNames string `json:"cast_names"`
}

// Context holds the loaded serving artifacts. Any field may be nil when its
// artifact was absent at load time. Immutable after Load.
type Context struct {
	Model      *recommend.SVDModel
	Index      *recommend.ItemIndex
	Similarity *recommend.SimilarityMatrix
	Metadata   map[int]Metadata
}

// HasModel reports whether the collaborative model artifact was loaded.
func (c *Context) HasModel() bool { return c.Model != nil }

// HasSimilarity reports whether the similarity matrix artifact was loaded.
func (c *Context) HasSimilarity() bool { return c.Similarity != nil }

// HasIndex reports whether the index map artifact was loaded.
func (c *Context) HasIndex() bool { return c.Index != nil }

// HasMetadata reports whether the metadata artifact was loaded.
func (c *Context) HasMetadata() bool { return len(c.Metadata) > 0 }

// Artifacts returns the engine's view of the loaded artifacts.
func (c *Context) Artifacts() recommend.Artifacts {
	arts := recommend.Artifacts{
		Index:      c.Index,
		Similarity: c.Similarity,
	}
	if c.Model != nil {
		arts.Predictor = c.Model
		arts.Scale = c.Model.Scale()
	}
	return arts
}

// modelFile is the on-disk shape of the collaborative model artifact.
type modelFile struct {
	RatingScale recommend.Scale       `json:"rating_scale"`
	GlobalMean  float64               `json:"global_mean"`
	Factors     int                   `json:"factors"`
	Users       map[int]modelFileUser `json:"users"`
	Items       map[int]modelFileItem `json:"items"`
}

type modelFileUser struct {
	Bias    float64            `json:"bias"`
	Factors []float64          `json:"factors"`
	Ratings []recommend.Rating `json:"ratings"`
}

type modelFileItem struct {
	Bias    float64   `json:"bias"`
	Factors []float64 `json:"factors"`
}

// similarityFile is the on-disk shape of the similarity matrix artifact.
type similarityFile struct {
	Matrix [][]float64 `json:"matrix"`
}

// Load reads the artifacts named by cfg. A missing or unreadable artifact is
// logged and recorded as absent; Load fails only when no artifact directory
// is configured.
func Load(cfg Config, logger zerolog.Logger) (*Context, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("artifact directory not configured")
	}
	log := logger.With().Str("component", "artifact").Logger()

	ctx := &Context{}

	var model modelFile
	if loadOne(filepath.Join(cfg.Dir, cfg.ModelFile), &model, log) {
		users := make(map[int]*recommend.UserFactors, len(model.Users))
		for id, u := range model.Users {
			users[id] = &recommend.UserFactors{Bias: u.Bias, Factors: u.Factors, History: u.Ratings}
		}
		items := make(map[int]*recommend.ItemFactors, len(model.Items))
		for id, it := range model.Items {
			items[id] = &recommend.ItemFactors{Bias: it.Bias, Factors: it.Factors}
		}

		m, err := recommend.NewSVDModel(model.RatingScale, model.GlobalMean, model.Factors, users, items)
		if err != nil {
			log.Error().Err(err).Str("file", cfg.ModelFile).Msg("collaborative model artifact rejected")
		} else {
			ctx.Model = m
			log.Info().Int("users", m.Users()).Int("items", m.Items()).Msg("collaborative model loaded")
		}
	}

	var sim similarityFile
	if loadOne(filepath.Join(cfg.Dir, cfg.SimilarityFile), &sim, log) {
		m, err := recommend.NewSimilarityMatrix(sim.Matrix)
		if err != nil {
			log.Error().Err(err).Str("file", cfg.SimilarityFile).Msg("similarity matrix artifact rejected")
		} else {
			ctx.Similarity = m
			log.Info().Int("dim", m.Dim()).Msg("similarity matrix loaded")
		}
	}

	var index map[int]int
	if loadOne(filepath.Join(cfg.Dir, cfg.IndexFile), &index, log) {
		ctx.Index = recommend.NewItemIndex(index)
		log.Info().Int("items", ctx.Index.Len()).Msg("item index map loaded")
	}

	var meta map[int]Metadata
	if loadOne(filepath.Join(cfg.Dir, cfg.MetadataFile), &meta, log) {
		ctx.Metadata = meta
		log.Info().Int("movies", len(meta)).Msg("movie metadata loaded")
	}

	return ctx, nil
}

// loadOne decodes a single JSON artifact into v. Absence and decode failures
// are absorbed: the artifact stays nil and the capability it backs degrades.
func loadOne(path string, v interface{}, log zerolog.Logger) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("artifact absent")
		} else {
			log.Error().Err(err).Str("path", path).Msg("artifact unreadable")
		}
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		log.Error().Err(err).Str("path", path).Msg("artifact malformed")
		return false
	}
	return true
}
