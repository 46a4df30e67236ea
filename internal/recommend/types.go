// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package recommend

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors returned by the engine and predictor implementations.
var (
	// ErrModelUnavailable indicates the collaborative model artifact was not
	// loaded. Ranking and history are unavailable; callers should surface
	// this as a service-unavailable condition.
	ErrModelUnavailable = errors.New("collaborative model not loaded")

	// ErrUnknownUser indicates the user is not part of the collaborative
	// model's training universe. For ranking this is a normal outcome that
	// yields an empty list, not a failure.
	ErrUnknownUser = errors.New("unknown user")

	// ErrUnknownItem indicates the item is not part of the collaborative
	// model's training universe.
	ErrUnknownItem = errors.New("unknown item")
)

// Rating is a single (item, rating) pair from a user's history.
type Rating struct {
	// ItemID is the rated movie identifier.
	ItemID int `json:"item_id"`

	// Value is the rating given, within the model's rating scale.
	Value float64 `json:"value"`
}

// Predictor is the capability exposed by the collaborative model artifact.
// Any concrete implementation (matrix factorization, neighborhood model,
// test double) satisfies it; the engine treats it as a black box.
type Predictor interface {
	// Predict returns the estimated rating for a (user, item) pair. The
	// estimate is in the model's native rating scale. Returns ErrUnknownUser
	// or ErrUnknownItem when the pair is outside the training universe.
	Predict(userID, itemID int) (float64, error)

	// HistoryOf returns the user's training-set ratings. Returns
	// ErrUnknownUser when the user is outside the training universe.
	// The returned slice is shared and must not be modified.
	HistoryOf(userID int) ([]Rating, error)
}

// Scale is the closed rating interval fixed at training time. All scores
// produced by the engine lie within it.
type Scale struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultScale is the MovieLens half-star scale used by the offline trainer.
var DefaultScale = Scale{Min: 0.5, Max: 5.0}

// Neutral returns the scale midpoint, used as the content scorer's fixed
// fallback (2.75 on the default scale).
func (s Scale) Neutral() float64 {
	return (s.Min + s.Max) / 2
}

// Clamp bounds v to the scale.
func (s Scale) Clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// Rescale maps raw in [0, 1] linearly onto the scale.
func (s Scale) Rescale(raw float64) float64 {
	return s.Min + (s.Max-s.Min)*raw
}

// Valid reports whether the interval is well-formed.
func (s Scale) Valid() bool {
	return s.Max > s.Min
}

// ItemIndex is the bijection between item IDs and dense matrix positions.
// Items absent from the index are unknown to the content model.
type ItemIndex struct {
	positions map[int]int
	ids       []int // item IDs in ascending order
}

// NewItemIndex builds an index from an itemID -> dense position map.
func NewItemIndex(positions map[int]int) *ItemIndex {
	ids := make([]int, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return &ItemIndex{positions: positions, ids: ids}
}

// Position returns the dense matrix position for an item ID.
func (ix *ItemIndex) Position(itemID int) (int, bool) {
	pos, ok := ix.positions[itemID]
	return pos, ok
}

// IDs returns all indexed item IDs in ascending order. The returned slice is
// shared and must not be modified.
func (ix *ItemIndex) IDs() []int {
	return ix.ids
}

// Len returns the number of indexed items.
func (ix *ItemIndex) Len() int {
	return len(ix.positions)
}

// SimilarityMatrix is the square item-item similarity matrix produced by the
// offline content trainer. Entries are in [-1, 1] with a unit diagonal and
// rows are addressed by dense position, not item ID.
type SimilarityMatrix struct {
	rows [][]float64
}

// NewSimilarityMatrix validates squareness and wraps the raw rows.
func NewSimilarityMatrix(rows [][]float64) (*SimilarityMatrix, error) {
	n := len(rows)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("similarity matrix not square: row %d has %d entries, want %d", i, len(row), n)
		}
	}
	return &SimilarityMatrix{rows: rows}, nil
}

// At returns the similarity between the items at dense positions i and j.
func (m *SimilarityMatrix) At(i, j int) float64 {
	return m.rows[i][j]
}

// Dim returns the matrix dimension.
func (m *SimilarityMatrix) Dim() int {
	return len(m.rows)
}

// Outcome records which scoring policy fired for a candidate.
type Outcome int

const (
	// OutcomeScored means both signal sources produced native scores.
	OutcomeScored Outcome = iota
	// OutcomeFallback means the content source substituted its neutral
	// default; the candidate is still ranked.
	OutcomeFallback
	// OutcomeExcluded means the collaborative source failed or the blend was
	// non-finite; the candidate is dropped from the ranking.
	OutcomeExcluded
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeScored:
		return "scored"
	case OutcomeFallback:
		return "fallback"
	case OutcomeExcluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// ScoredItem is one entry of a ranked recommendation list.
type ScoredItem struct {
	// ItemID is the recommended movie identifier.
	ItemID int `json:"item_id"`

	// Score is the blended prediction, within the rating scale.
	Score float64 `json:"score"`

	// Collaborative is the latent-factor estimate that went into the blend.
	Collaborative float64 `json:"collaborative"`

	// Content is the similarity-vote estimate that went into the blend.
	Content float64 `json:"content"`

	// Outcome reports whether the content source fell back to its default.
	Outcome Outcome `json:"-"`
}

// Result is the outcome of one ranking request.
type Result struct {
	// Items is the ranked list, best first.
	Items []ScoredItem `json:"items"`

	// Candidates is the number of eligible items before scoring.
	Candidates int `json:"candidates"`

	// Excluded is the number of candidates dropped by scoring failures.
	Excluded int `json:"excluded"`

	// Fallbacks is the number of ranked items whose content score fell back
	// to the neutral default.
	Fallbacks int `json:"fallbacks"`
}
