// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

// Package recommend implements the hybrid scoring and candidate-ranking engine.
//
// The engine blends two independently trained signal sources into a single
// ranked list per user:
//
//   - Collaborative: a latent-factor model (SVD with biases) trained on the
//     user-item rating matrix. Accessed through the Predictor interface so the
//     engine never depends on the model's internal representation.
//   - Content: a weighted vote over the item-similarity matrix using the
//     user's known ratings, rescaled into the rating scale.
//
// The two sources have deliberately different failure policies. A content
// score that cannot be computed (unknown item, absent matrix, empty history,
// zero similarity mass) falls back to the scale's neutral midpoint. A
// collaborative score that cannot be computed excludes the candidate from the
// ranking entirely. The Outcome type records which policy fired for each
// candidate so callers and tests can observe the distinction.
//
// # Thread Safety
//
// All serving artifacts are immutable after construction. The engine performs
// pure reads over shared data, so concurrent Recommend calls require no
// coordination beyond the bounded worker fan-out each call manages itself.
//
// Note: this package has no dependencies on other internal packages. The
// artifact loader constructs the Predictor, ItemIndex and SimilarityMatrix
// values and hands them to NewEngine.
package recommend
