// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package recommend

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
)

// contentFixture builds an engine over the 3x3 reference matrix:
//
//	items {1, 2, 3} -> positions {0, 1, 2}
//	[[1, 0.2, 0], [0.2, 1, 0], [0, 0, 1]]
//
// with user 1 having rated item 1 at 5.0.
func contentFixture(t *testing.T) *Engine {
	t.Helper()

	sim, err := NewSimilarityMatrix([][]float64{
		{1, 0.2, 0},
		{0.2, 1, 0},
		{0, 0, 1},
	})
	if err != nil {
		t.Fatalf("NewSimilarityMatrix: %v", err)
	}

	pred := &mockPredictor{
		history: map[int][]Rating{
			1: {{ItemID: 1, Value: 5.0}},
			2: {},
		},
	}

	e, err := NewEngine(DefaultConfig(), Artifacts{
		Predictor:  pred,
		Index:      testIndex(3),
		Similarity: sim,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestContentScore_WeightedVote(t *testing.T) {
	e := contentFixture(t)

	// sim(2,1)=0.2, rating 5.0: raw = clamp((0.2*5)/0.2, 0, 1) = 1,
	// rescaled 0.5 + 4.5*1 = 5.0.
	got, fellBack := e.ContentScore(1, 2)
	if fellBack {
		t.Fatal("ContentScore fell back, want computed estimate")
	}
	if math.Abs(got-5.0) > 1e-9 {
		t.Errorf("ContentScore(1, 2) = %g, want 5.0", got)
	}
}

func TestContentScore_ZeroSimilarityMassDefaults(t *testing.T) {
	e := contentFixture(t)

	// sim(3,1)=0 so weightSum is 0: neutral default applies.
	got, fellBack := e.ContentScore(1, 3)
	if !fellBack {
		t.Fatal("ContentScore did not fall back on zero similarity mass")
	}
	if got != 2.75 {
		t.Errorf("ContentScore(1, 3) = %g, want 2.75", got)
	}
}

func TestContentScore_EmptyHistoryDefaults(t *testing.T) {
	e := contentFixture(t)

	for item := 1; item <= 3; item++ {
		got, fellBack := e.ContentScore(2, item)
		if !fellBack || got != 2.75 {
			t.Errorf("ContentScore(2, %d) = (%g, %v), want (2.75, true)", item, got, fellBack)
		}
	}
}

func TestContentScore_UnknownItemDefaults(t *testing.T) {
	e := contentFixture(t)

	got, fellBack := e.ContentScore(1, 99)
	if !fellBack || got != 2.75 {
		t.Errorf("ContentScore(1, 99) = (%g, %v), want (2.75, true)", got, fellBack)
	}
}

func TestContentScore_UnknownUserDefaults(t *testing.T) {
	e := contentFixture(t)

	got, fellBack := e.ContentScore(42, 2)
	if !fellBack || got != 2.75 {
		t.Errorf("ContentScore(42, 2) = (%g, %v), want (2.75, true)", got, fellBack)
	}
}

func TestContentScore_AbsentMatrixDefaults(t *testing.T) {
	pred := &mockPredictor{
		history: map[int][]Rating{1: {{ItemID: 1, Value: 5.0}}},
	}
	e := testEngine(t, Artifacts{Predictor: pred, Index: testIndex(3)})

	got, fellBack := e.ContentScore(1, 2)
	if !fellBack || got != 2.75 {
		t.Errorf("ContentScore without matrix = (%g, %v), want (2.75, true)", got, fellBack)
	}
}

func TestContentScore_NegativeVoteClampedBeforeRescale(t *testing.T) {
	// A strongly negative similarity drives the weighted average below zero.
	// The raw value must be clamped to [0, 1] before rescaling, so the
	// result is the scale minimum, not a value below it.
	sim, err := NewSimilarityMatrix([][]float64{
		{1, -0.8},
		{-0.8, 1},
	})
	if err != nil {
		t.Fatalf("NewSimilarityMatrix: %v", err)
	}
	pred := &mockPredictor{
		history: map[int][]Rating{1: {{ItemID: 1, Value: 5.0}}},
	}
	e := testEngine(t, Artifacts{Predictor: pred, Index: testIndex(2), Similarity: sim})

	got, fellBack := e.ContentScore(1, 2)
	if fellBack {
		t.Fatal("ContentScore fell back, want computed estimate")
	}
	if got != 0.5 {
		t.Errorf("ContentScore(1, 2) = %g, want scale minimum 0.5", got)
	}
}

func TestContentScore_AlwaysWithinScale(t *testing.T) {
	e := contentFixture(t)

	for user := 0; user <= 3; user++ {
		for item := 0; item <= 4; item++ {
			got, _ := e.ContentScore(user, item)
			if got < e.Scale().Min || got > e.Scale().Max {
				t.Errorf("ContentScore(%d, %d) = %g outside scale [%g, %g]", user, item, got, e.Scale().Min, e.Scale().Max)
			}
		}
	}
}

func TestNewSimilarityMatrix_RejectsRagged(t *testing.T) {
	if _, err := NewSimilarityMatrix([][]float64{{1, 0}, {0}}); err == nil {
		t.Fatal("NewSimilarityMatrix accepted a ragged matrix")
	}
}
