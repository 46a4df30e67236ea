// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package recommend

import "math"

// ContentScore estimates the user's affinity for an item from the item
// similarity structure and the user's known ratings. It never fails: when no
// estimate can be computed the neutral scale midpoint is substituted and the
// second return value is true.
//
// The estimate is a similarity-weighted vote over the user's rated items:
//
//	raw = clamp(sum(sim*rating) / sum(|sim|), 0, 1)
//
// rescaled linearly into the rating scale. The clamp is mandatory:
// similarities may be negative, so the weighted average can leave [0, 1] and
// must be bounded before rescaling.
func (e *Engine) ContentScore(userID, itemID int) (float64, bool) {
	if e.predictor == nil {
		return e.scale.Neutral(), true
	}

	history, err := e.predictor.HistoryOf(userID)
	if err != nil {
		return e.scale.Neutral(), true
	}
	return e.contentScore(history, itemID)
}

// contentScore is the per-candidate path used by the ranking loop, which
// resolves the history once per request rather than once per candidate.
func (e *Engine) contentScore(history []Rating, itemID int) (float64, bool) {
	if e.similarity == nil || e.index == nil {
		return e.scale.Neutral(), true
	}

	target, ok := e.index.Position(itemID)
	if !ok {
		return e.scale.Neutral(), true
	}
	if len(history) == 0 {
		return e.scale.Neutral(), true
	}

	var scoreSum, weightSum float64
	for _, r := range history {
		pos, ok := e.index.Position(r.ItemID)
		if !ok {
			continue
		}
		sim := e.similarity.At(target, pos)
		scoreSum += sim * r.Value
		weightSum += math.Abs(sim)
	}

	if weightSum == 0 {
		return e.scale.Neutral(), true
	}

	raw := scoreSum / weightSum
	if raw < 0 {
		raw = 0
	} else if raw > 1 {
		raw = 1
	}
	return e.scale.Rescale(raw), false
}
