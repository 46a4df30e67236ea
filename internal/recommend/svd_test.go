// Cinephile - Hybrid Movie Recommendation Service
// Copyright 2026 Abdullah (abdul1ah)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abdul1ah/cinephile

package recommend

import (
	"errors"
	"math"
	"testing"
)

func testSVD(t *testing.T) *SVDModel {
	t.Helper()

	m, err := NewSVDModel(DefaultScale, 3.5, 2,
		map[int]*UserFactors{
			1: {
				Bias:    0.25,
				Factors: []float64{0.5, -0.1},
				History: []Rating{{ItemID: 20, Value: 3.0}, {ItemID: 10, Value: 4.5}},
			},
		},
		map[int]*ItemFactors{
			10: {Bias: -0.15, Factors: []float64{0.4, 0.2}},
			20: {Bias: 2.0, Factors: []float64{1.5, 0}},
			30: {Bias: -4.0, Factors: []float64{-1.0, 0}},
		},
	)
	if err != nil {
		t.Fatalf("NewSVDModel: %v", err)
	}
	return m
}

func TestSVDModel_Predict(t *testing.T) {
	m := testSVD(t)

	// 3.5 + 0.25 - 0.15 + (0.5*0.4 + -0.1*0.2) = 3.78
	got, err := m.Predict(1, 10)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if math.Abs(got-3.78) > 1e-9 {
		t.Errorf("Predict(1, 10) = %g, want 3.78", got)
	}
}

func TestSVDModel_PredictClampedToScale(t *testing.T) {
	m := testSVD(t)

	tests := []struct {
		name string
		item int
		want float64
	}{
		// 3.5 + 0.25 + 2.0 + 0.75 = 6.5, clamped to max
		{name: "high estimate", item: 20, want: 5.0},
		// 3.5 + 0.25 - 4.0 - 0.5 = -0.75, clamped to min
		{name: "low estimate", item: 30, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Predict(1, tt.item)
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}
			if got != tt.want {
				t.Errorf("Predict(1, %d) = %g, want %g", tt.item, got, tt.want)
			}
		})
	}
}

func TestSVDModel_PredictUnknown(t *testing.T) {
	m := testSVD(t)

	if _, err := m.Predict(99, 10); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("unknown user: err = %v, want ErrUnknownUser", err)
	}
	if _, err := m.Predict(1, 99); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("unknown item: err = %v, want ErrUnknownItem", err)
	}
}

func TestSVDModel_HistoryOf(t *testing.T) {
	m := testSVD(t)

	history, err := m.HistoryOf(1)
	if err != nil {
		t.Fatalf("HistoryOf: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	// Normalized to ascending item ID at construction.
	if history[0].ItemID != 10 || history[1].ItemID != 20 {
		t.Errorf("history order = [%d, %d], want [10, 20]", history[0].ItemID, history[1].ItemID)
	}

	if _, err := m.HistoryOf(99); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("unknown user: err = %v, want ErrUnknownUser", err)
	}
}

func TestNewSVDModel_Validation(t *testing.T) {
	tests := []struct {
		name    string
		scale   Scale
		factors int
		users   map[int]*UserFactors
		items   map[int]*ItemFactors
	}{
		{
			name:    "inverted scale",
			scale:   Scale{Min: 5, Max: 0.5},
			factors: 1,
		},
		{
			name:    "zero factors",
			scale:   DefaultScale,
			factors: 0,
		},
		{
			name:    "user factor dimension mismatch",
			scale:   DefaultScale,
			factors: 2,
			users:   map[int]*UserFactors{1: {Factors: []float64{0.1}}},
		},
		{
			name:    "item factor dimension mismatch",
			scale:   DefaultScale,
			factors: 2,
			items:   map[int]*ItemFactors{1: {Factors: []float64{0.1, 0.2, 0.3}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSVDModel(tt.scale, 3.0, tt.factors, tt.users, tt.items); err == nil {
				t.Error("NewSVDModel accepted invalid input")
			}
		})
	}
}
