// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

// mockPredictor implements Predictor for testing.
type mockPredictor struct {
	scores  map[int]map[int]float64 // userID -> itemID -> estimate
	history map[int][]Rating
	failOn  map[int]error // itemID -> error returned by Predict
}

func (m *mockPredictor) Predict(userID, itemID int) (float64, error) {
	if err, ok := m.failOn[itemID]; ok {
		return 0, err
	}
	user, ok := m.scores[userID]
	if !ok {
		return 0, fmt.Errorf("%w: user %d", ErrUnknownUser, userID)
	}
	est, ok := user[itemID]
	if !ok {
		return 0, fmt.Errorf("%w: item %d", ErrUnknownItem, itemID)
	}
	return est, nil
}

func (m *mockPredictor) HistoryOf(userID int) ([]Rating, error) {
	h, ok := m.history[userID]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", ErrUnknownUser, userID)
	}
	return h, nil
}

// testIndex builds an index over items 1..n at positions 0..n-1.
func testIndex(n int) *ItemIndex {
	positions := make(map[int]int, n)
	for i := 0; i < n; i++ {
		positions[i+1] = i
	}
	return NewItemIndex(positions)
}

func testEngine(t *testing.T, arts Artifacts) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), arts, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	_, err := NewEngine(Config{MaxN: -1}, Artifacts{}, zerolog.Nop())
	if err == nil {
		t.Fatal("NewEngine accepted invalid config")
	}
}

func TestNewEngine_MismatchedArtifactsDegradeContent(t *testing.T) {
	sim, err := NewSimilarityMatrix([][]float64{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("NewSimilarityMatrix: %v", err)
	}

	e := testEngine(t, Artifacts{
		Predictor:  &mockPredictor{history: map[int][]Rating{1: {{ItemID: 1, Value: 5}}}},
		Index:      testIndex(3), // 3 items vs 2x2 matrix
		Similarity: sim,
	})

	got, fellBack := e.ContentScore(1, 2)
	if !fellBack || got != DefaultScale.Neutral() {
		t.Errorf("ContentScore with mismatched artifacts = (%g, %v), want (%g, true)", got, fellBack, DefaultScale.Neutral())
	}
}

func TestEngine_Recommend_ModelUnavailable(t *testing.T) {
	e := testEngine(t, Artifacts{Index: testIndex(3)})

	_, err := e.Recommend(context.Background(), 1, 10, 0.5)
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("Recommend without predictor: err = %v, want ErrModelUnavailable", err)
	}
}

func TestEngine_Recommend_UnknownUser(t *testing.T) {
	e := testEngine(t, Artifacts{
		Predictor: &mockPredictor{history: map[int][]Rating{}},
		Index:     testIndex(3),
	})

	result, err := e.Recommend(context.Background(), 999999, 10, 0.5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("unknown user returned %d items, want 0", len(result.Items))
	}
}

func TestEngine_Recommend_ExcludesWatched(t *testing.T) {
	pred := &mockPredictor{
		scores: map[int]map[int]float64{
			1: {1: 4.0, 2: 3.0, 3: 5.0, 4: 2.0},
		},
		history: map[int][]Rating{
			1: {{ItemID: 1, Value: 4.5}, {ItemID: 3, Value: 3.0}},
		},
	}
	e := testEngine(t, Artifacts{Predictor: pred, Index: testIndex(4)})

	result, err := e.Recommend(context.Background(), 1, 10, 0.5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	watched := map[int]struct{}{1: {}, 3: {}}
	for _, item := range result.Items {
		if _, ok := watched[item.ItemID]; ok {
			t.Errorf("watched item %d present in recommendations", item.ItemID)
		}
	}
	if result.Candidates != 2 {
		t.Errorf("candidates = %d, want 2", result.Candidates)
	}
}

func TestEngine_Recommend_TruncatesToEligible(t *testing.T) {
	// n=5 with only 3 eligible candidates must return length 3, not 5.
	pred := &mockPredictor{
		scores: map[int]map[int]float64{
			1: {1: 4.0, 2: 3.0, 3: 5.0, 4: 2.0},
		},
		history: map[int][]Rating{
			1: {{ItemID: 4, Value: 1.0}},
		},
	}
	e := testEngine(t, Artifacts{Predictor: pred, Index: testIndex(4)})

	result, err := e.Recommend(context.Background(), 1, 5, 0.5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Items) != 3 {
		t.Errorf("len(items) = %d, want 3", len(result.Items))
	}
}

func TestEngine_Recommend_SortedWithDeterministicTies(t *testing.T) {
	// Items 2 and 4 tie exactly; the tie must break by ascending item ID.
	pred := &mockPredictor{
		scores: map[int]map[int]float64{
			1: {1: 2.0, 2: 4.0, 3: 5.0, 4: 4.0},
		},
		history: map[int][]Rating{1: {}},
	}
	e := testEngine(t, Artifacts{Predictor: pred, Index: testIndex(4)})

	result, err := e.Recommend(context.Background(), 1, 10, 1.0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	var got []int
	for _, item := range result.Items {
		got = append(got, item.ItemID)
	}
	want := []int{3, 2, 4, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ranking order = %v, want %v", got, want)
	}

	for i := 1; i < len(result.Items); i++ {
		if result.Items[i].Score > result.Items[i-1].Score {
			t.Errorf("items not sorted by score descending at position %d", i)
		}
	}
}

func TestEngine_Recommend_Deterministic(t *testing.T) {
	// Repeated calls over unchanged artifacts must return identical output
	// even with parallel scoring.
	scores := make(map[int]float64)
	positions := make(map[int]int)
	for i := 0; i < 500; i++ {
		id := i + 1
		positions[id] = i
		scores[id] = 0.5 + 4.5*float64((id*7919)%1000)/1000.0
	}
	pred := &mockPredictor{
		scores:  map[int]map[int]float64{1: scores},
		history: map[int][]Rating{1: {}},
	}

	cfg := DefaultConfig()
	cfg.Workers = 8
	e, err := NewEngine(cfg, Artifacts{Predictor: pred, Index: NewItemIndex(positions)}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	first, err := e.Recommend(context.Background(), 1, 50, 0.7)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := e.Recommend(context.Background(), 1, 50, 0.7)
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if !reflect.DeepEqual(first.Items, again.Items) {
			t.Fatalf("call %d returned different output", i+2)
		}
	}
}

func TestEngine_Recommend_CollaborativeFailureExcludesCandidate(t *testing.T) {
	pred := &mockPredictor{
		scores: map[int]map[int]float64{
			1: {1: 4.0, 2: 3.0, 3: 5.0},
		},
		history: map[int][]Rating{1: {}},
		failOn:  map[int]error{2: fmt.Errorf("%w: item 2", ErrUnknownItem)},
	}
	e := testEngine(t, Artifacts{Predictor: pred, Index: testIndex(3)})

	result, err := e.Recommend(context.Background(), 1, 10, 1.0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.Excluded != 1 {
		t.Errorf("excluded = %d, want 1", result.Excluded)
	}
	for _, item := range result.Items {
		if item.ItemID == 2 {
			t.Error("failed candidate 2 present in ranking, want excluded not defaulted")
		}
	}
	if len(result.Items) != 2 {
		t.Errorf("len(items) = %d, want 2", len(result.Items))
	}
}

func TestEngine_Recommend_NonFiniteScoreExcluded(t *testing.T) {
	pred := &mockPredictor{
		scores: map[int]map[int]float64{
			1: {1: math.NaN(), 2: 3.0},
		},
		history: map[int][]Rating{1: {}},
	}
	e := testEngine(t, Artifacts{Predictor: pred, Index: testIndex(2)})

	result, err := e.Recommend(context.Background(), 1, 10, 1.0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.Excluded != 1 || len(result.Items) != 1 {
		t.Errorf("excluded = %d, len(items) = %d, want 1 and 1", result.Excluded, len(result.Items))
	}
}

func TestEngine_Recommend_NoContentIndex(t *testing.T) {
	// Without the content index the candidate universe is empty.
	pred := &mockPredictor{
		scores:  map[int]map[int]float64{1: {1: 4.0}},
		history: map[int][]Rating{1: {}},
	}
	e := testEngine(t, Artifacts{Predictor: pred})

	result, err := e.Recommend(context.Background(), 1, 10, 0.5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Items) != 0 || result.Candidates != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestEngine_Recommend_ScoresWithinScale(t *testing.T) {
	pred := &mockPredictor{
		scores: map[int]map[int]float64{
			1: {1: 0.5, 2: 5.0, 3: 2.75},
		},
		history: map[int][]Rating{1: {}},
	}
	e := testEngine(t, Artifacts{Predictor: pred, Index: testIndex(3)})

	for _, alpha := range []float64{0, 0.3, 0.7, 1} {
		result, err := e.Recommend(context.Background(), 1, 10, alpha)
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		for _, item := range result.Items {
			if item.Score < e.Scale().Min || item.Score > e.Scale().Max {
				t.Errorf("alpha %g: score %g for item %d outside scale", alpha, item.Score, item.ItemID)
			}
		}
	}
}

func TestEngine_Recommend_CancelledContext(t *testing.T) {
	pred := &mockPredictor{
		scores:  map[int]map[int]float64{1: {1: 4.0}},
		history: map[int][]Rating{1: {}},
	}
	e := testEngine(t, Artifacts{Predictor: pred, Index: testIndex(1)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Recommend(ctx, 1, 10, 0.5); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestEngine_CollaborativeScore(t *testing.T) {
	pred := &mockPredictor{
		scores: map[int]map[int]float64{1: {7: 4.2}},
	}
	e := testEngine(t, Artifacts{Predictor: pred})

	got, err := e.CollaborativeScore(1, 7)
	if err != nil {
		t.Fatalf("CollaborativeScore: %v", err)
	}
	if got != 4.2 {
		t.Errorf("CollaborativeScore = %g, want 4.2 (no rescaling)", got)
	}

	if _, err := e.CollaborativeScore(1, 8); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("err = %v, want ErrUnknownItem to propagate", err)
	}
}

func TestEngine_History(t *testing.T) {
	pred := &mockPredictor{
		history: map[int][]Rating{
			1: {{ItemID: 3, Value: 4.0}, {ItemID: 9, Value: 2.5}},
		},
	}
	e := testEngine(t, Artifacts{Predictor: pred})

	t.Run("known user", func(t *testing.T) {
		got, err := e.History(1)
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len(history) = %d, want 2", len(got))
		}
	})

	t.Run("unknown user yields empty not error", func(t *testing.T) {
		got, err := e.History(42)
		if err != nil {
			t.Fatalf("History: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len(history) = %d, want 0", len(got))
		}
	})

	t.Run("no model", func(t *testing.T) {
		bare := testEngine(t, Artifacts{})
		if _, err := bare.History(1); !errors.Is(err, ErrModelUnavailable) {
			t.Errorf("err = %v, want ErrModelUnavailable", err)
		}
	})
}

func TestEngine_GetStats(t *testing.T) {
	pred := &mockPredictor{
		scores:  map[int]map[int]float64{1: {1: 4.0, 2: 3.0}},
		history: map[int][]Rating{1: {}},
		failOn:  map[int]error{2: errors.New("boom")},
	}
	e := testEngine(t, Artifacts{Predictor: pred, Index: testIndex(2)})

	if _, err := e.Recommend(context.Background(), 1, 10, 0.5); err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	stats := e.GetStats()
	if stats.Requests != 1 {
		t.Errorf("requests = %d, want 1", stats.Requests)
	}
	if stats.Excluded != 1 {
		t.Errorf("excluded = %d, want 1", stats.Excluded)
	}
}
