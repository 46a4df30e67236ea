// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package recommend

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Artifacts carries the immutable serving artifacts the engine reads from.
// Any field may be nil: a partial deployment serves degraded functionality
// instead of failing at construction time.
type Artifacts struct {
	// Predictor is the collaborative model. Nil makes ranking and history
	// unavailable (ErrModelUnavailable).
	Predictor Predictor

	// Scale is the rating interval fixed at training time. An invalid scale
	// falls back to DefaultScale.
	Scale Scale

	// Index maps item IDs to dense similarity-matrix positions. Nil leaves
	// the candidate universe empty.
	Index *ItemIndex

	// Similarity is the item-item similarity matrix. Nil degrades content
	// scoring to the neutral default.
	Similarity *SimilarityMatrix
}

// Engine turns the item universe into a small ordered set of the
// highest-predicted-affinity unseen items per user. It is safe for
// concurrent use; all state is immutable after construction except the
// request counters.
type Engine struct {
	config     Config
	logger     zerolog.Logger
	scale      Scale
	predictor  Predictor
	index      *ItemIndex
	similarity *SimilarityMatrix

	requestCount  atomic.Int64
	excludedCount atomic.Int64
	fallbackCount atomic.Int64
}

// NewEngine validates the configuration, checks artifact consistency and
// assembles an engine over the given artifacts.
func NewEngine(cfg Config, arts Artifacts, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	scale := arts.Scale
	if !scale.Valid() {
		scale = DefaultScale
	}

	e := &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		scale:      scale,
		predictor:  arts.Predictor,
		index:      arts.Index,
		similarity: arts.Similarity,
	}

	// The two content artifacts are trained together but shipped separately.
	// A dimension mismatch means positions cannot be trusted, so the matrix
	// is dropped and content scoring degrades to the neutral default.
	if e.similarity != nil {
		switch {
		case e.index == nil:
			e.logger.Warn().Msg("similarity matrix loaded without index map, content scoring degraded")
			e.similarity = nil
		case e.similarity.Dim() != e.index.Len():
			e.logger.Warn().
				Int("matrix_dim", e.similarity.Dim()).
				Int("index_len", e.index.Len()).
				Msg("similarity matrix and index map disagree, content scoring degraded")
			e.similarity = nil
		}
	}

	return e, nil
}

// Scale returns the rating scale all produced scores lie in.
func (e *Engine) Scale() Scale {
	return e.scale
}

// Ready reports whether the collaborative model is loaded and ranking is
// available.
func (e *Engine) Ready() bool {
	return e.predictor != nil
}

// Universe returns the number of items known to the content index.
func (e *Engine) Universe() int {
	if e.index == nil {
		return 0
	}
	return e.index.Len()
}

// CollaborativeScore is a direct pass-through to the latent-factor
// predictor. The native output is already in the rating scale; no rescaling
// is applied. Failures are not masked with a default: they propagate so the
// ranking loop can exclude the candidate.
func (e *Engine) CollaborativeScore(userID, itemID int) (float64, error) {
	if e.predictor == nil {
		return 0, ErrModelUnavailable
	}
	return e.predictor.Predict(userID, itemID)
}

// Recommend ranks the user's unseen items and returns the top n under the
// blending weight alpha.
//
// A user unknown to the collaborative model yields an empty result and a nil
// error. A nil collaborative artifact yields ErrModelUnavailable. Candidates
// whose collaborative score fails, or whose blended score is non-finite, are
// excluded from the ranking rather than defaulted.
//
// Ties are broken by ascending item ID, so repeated calls over unchanged
// artifacts return identical output regardless of scoring order.
func (e *Engine) Recommend(ctx context.Context, userID, n int, alpha float64) (*Result, error) {
	e.requestCount.Add(1)

	if e.predictor == nil {
		return nil, ErrModelUnavailable
	}

	if n <= 0 {
		n = e.config.DefaultN
	}
	if n > e.config.MaxN {
		n = e.config.MaxN
	}

	history, err := e.predictor.HistoryOf(userID)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			e.logger.Debug().Int("user_id", userID).Msg("user unknown to model, empty result")
			return &Result{Items: []ScoredItem{}}, nil
		}
		return nil, fmt.Errorf("resolve history for user %d: %w", userID, err)
	}

	candidates := e.candidatesFor(history)
	if len(candidates) == 0 {
		return &Result{Items: []ScoredItem{}}, nil
	}

	// The scoring loop is bounded and CPU-only; callers bound latency via n
	// and the candidate universe, not mid-batch cancellation. Bail out only
	// if the request is already dead.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scored := e.scoreCandidates(userID, alpha, history, candidates)

	result := &Result{
		Items:      make([]ScoredItem, 0, len(scored)),
		Candidates: len(candidates),
	}
	for _, s := range scored {
		switch s.Outcome {
		case OutcomeExcluded:
			result.Excluded++
		case OutcomeFallback:
			result.Fallbacks++
			result.Items = append(result.Items, s)
		default:
			result.Items = append(result.Items, s)
		}
	}
	e.excludedCount.Add(int64(result.Excluded))
	e.fallbackCount.Add(int64(result.Fallbacks))

	sort.Slice(result.Items, func(i, j int) bool {
		if result.Items[i].Score != result.Items[j].Score {
			return result.Items[i].Score > result.Items[j].Score
		}
		return result.Items[i].ItemID < result.Items[j].ItemID
	})

	if len(result.Items) > n {
		result.Items = result.Items[:n]
	}

	e.logger.Debug().
		Int("user_id", userID).
		Int("candidates", result.Candidates).
		Int("excluded", result.Excluded).
		Int("returned", len(result.Items)).
		Float64("alpha", alpha).
		Msg("ranking complete")

	return result, nil
}

// History returns the user's training-set ratings. A user unknown to the
// model yields an empty slice and a nil error.
func (e *Engine) History(userID int) ([]Rating, error) {
	if e.predictor == nil {
		return nil, ErrModelUnavailable
	}

	history, err := e.predictor.HistoryOf(userID)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			return []Rating{}, nil
		}
		return nil, fmt.Errorf("resolve history for user %d: %w", userID, err)
	}
	return history, nil
}

// candidatesFor enumerates the eligible item universe: every item known to
// the content index minus the user's watched set, in ascending ID order.
// Items known only to the collaborative model are not candidates; both
// scorers must be attemptable for every candidate.
func (e *Engine) candidatesFor(history []Rating) []int {
	if e.index == nil {
		return nil
	}

	watched := make(map[int]struct{}, len(history))
	for _, r := range history {
		watched[r.ItemID] = struct{}{}
	}

	ids := e.index.IDs()
	candidates := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, seen := watched[id]; !seen {
			candidates = append(candidates, id)
		}
	}
	return candidates
}

// scoreCandidates scores every candidate with a bounded worker fan-out.
// Results land in a fixed slot per candidate, so parallel completion order
// never affects the final ranking.
func (e *Engine) scoreCandidates(userID int, alpha float64, history []Rating, candidates []int) []ScoredItem {
	workers := e.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	scored := make([]ScoredItem, len(candidates))

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= len(candidates) {
					return
				}
				scored[i] = e.scoreCandidate(userID, candidates[i], alpha, history)
			}
		}()
	}
	wg.Wait()

	return scored
}

// scoreCandidate applies both scorers and the blend to a single candidate.
func (e *Engine) scoreCandidate(userID, itemID int, alpha float64, history []Rating) ScoredItem {
	cf, err := e.predictor.Predict(userID, itemID)
	if err != nil || !finite(cf) {
		return ScoredItem{ItemID: itemID, Outcome: OutcomeExcluded}
	}

	cb, fellBack := e.contentScore(history, itemID)

	score := Blend(cf, cb, alpha)
	if !finite(score) {
		return ScoredItem{ItemID: itemID, Outcome: OutcomeExcluded}
	}

	item := ScoredItem{
		ItemID:        itemID,
		Score:         score,
		Collaborative: cf,
		Content:       cb,
	}
	if fellBack {
		item.Outcome = OutcomeFallback
	}
	return item
}

// Stats is a snapshot of the engine's lifetime counters.
type Stats struct {
	Requests  int64 `json:"requests"`
	Excluded  int64 `json:"excluded"`
	Fallbacks int64 `json:"fallbacks"`
}

// GetStats returns a snapshot of the engine's lifetime counters.
func (e *Engine) GetStats() Stats {
	return Stats{
		Requests:  e.requestCount.Load(),
		Excluded:  e.excludedCount.Load(),
		Fallbacks: e.fallbackCount.Load(),
	}
}
