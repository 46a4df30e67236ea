// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package recommend

import (
	"fmt"
	"sort"
)

// SVDModel is the biased matrix-factorization predictor produced by the
// offline collaborative trainer. A prediction is
//
//	clamp(mu + b_u + b_i + p_u . q_i)
//
// where mu is the global rating mean, b_u and b_i are user and item biases,
// and p_u, q_i are the latent factor vectors. The model also carries each
// user's training-set ratings, which serve as the engine's watched set and
// as the content scorer's vote weights.
//
// The model is immutable after construction and safe for concurrent use.
type SVDModel struct {
	scale      Scale
	globalMean float64
	factors    int
	users      map[int]*UserFactors
	items      map[int]*ItemFactors
}

// UserFactors holds one user's latent representation and rating history.
type UserFactors struct {
	Bias    float64
	Factors []float64
	History []Rating
}

// ItemFactors holds one item's latent representation.
type ItemFactors struct {
	Bias    float64
	Factors []float64
}

// NewSVDModel validates factor dimensions and assembles a predictor.
// User histories are normalized to ascending item ID so downstream
// iteration is deterministic.
func NewSVDModel(scale Scale, globalMean float64, factors int, users map[int]*UserFactors, items map[int]*ItemFactors) (*SVDModel, error) {
	if !scale.Valid() {
		return nil, fmt.Errorf("invalid rating scale [%g, %g]", scale.Min, scale.Max)
	}
	if factors <= 0 {
		return nil, fmt.Errorf("invalid factor count %d", factors)
	}

	for id, u := range users {
		if len(u.Factors) != factors {
			return nil, fmt.Errorf("user %d has %d factors, want %d", id, len(u.Factors), factors)
		}
		sort.Slice(u.History, func(i, j int) bool {
			return u.History[i].ItemID < u.History[j].ItemID
		})
	}
	for id, it := range items {
		if len(it.Factors) != factors {
			return nil, fmt.Errorf("item %d has %d factors, want %d", id, len(it.Factors), factors)
		}
	}

	return &SVDModel{
		scale:      scale,
		globalMean: globalMean,
		factors:    factors,
		users:      users,
		items:      items,
	}, nil
}

// Scale returns the rating scale the model was trained on.
func (m *SVDModel) Scale() Scale {
	return m.scale
}

// Users returns the number of users in the training universe.
func (m *SVDModel) Users() int {
	return len(m.users)
}

// Items returns the number of items in the training universe.
func (m *SVDModel) Items() int {
	return len(m.items)
}

// Predict implements Predictor. The estimate is clamped to the rating scale,
// matching the trainer's own prediction bounds.
func (m *SVDModel) Predict(userID, itemID int) (float64, error) {
	u, ok := m.users[userID]
	if !ok {
		return 0, fmt.Errorf("%w: user %d", ErrUnknownUser, userID)
	}
	it, ok := m.items[itemID]
	if !ok {
		return 0, fmt.Errorf("%w: item %d", ErrUnknownItem, itemID)
	}

	est := m.globalMean + u.Bias + it.Bias
	for i := range u.Factors {
		est += u.Factors[i] * it.Factors[i]
	}
	return m.scale.Clamp(est), nil
}

// HistoryOf implements Predictor. The returned slice is shared and must not
// be modified.
func (m *SVDModel) HistoryOf(userID int) ([]Rating, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", ErrUnknownUser, userID)
	}
	return u.History, nil
}
