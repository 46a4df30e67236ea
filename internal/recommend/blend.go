// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package recommend

import "math"

// Blend combines a collaborative and a content estimate under the weight
// alpha, clamped to [0, 1]:
//
//	alpha*cf + (1-alpha)*cb
//
// Blend is a pure function. For finite inputs the result lies between
// min(cf, cb) and max(cf, cb); callers are responsible for rejecting
// non-finite inputs or results as scoring failures.
func Blend(cf, cb, alpha float64) float64 {
	alpha = clampAlpha(alpha)
	return alpha*cf + (1-alpha)*cb
}

// clampAlpha bounds the blending weight to [0, 1].
func clampAlpha(alpha float64) float64 {
	switch {
	case math.IsNaN(alpha), alpha < 0:
		return 0
	case alpha > 1:
		return 1
	default:
		return alpha
	}
}

// finite reports whether v is a usable score value.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
