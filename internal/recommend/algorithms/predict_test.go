// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package algorithms

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/tomtom215/cfbench/internal/recommend"
)

func TestNewKNNPredictor(t *testing.T) {
	tests := []struct {
		name     string
		agg      recommend.Aggregation
		wantName string
	}{
		{"mean", recommend.AggregationMean, "knn-mean"},
		{"weighted", recommend.AggregationWeighted, "knn-weighted"},
		{"empty falls back to mean", "", "knn-mean"},
		{"unknown falls back to mean", "median", "knn-mean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewKNNPredictor(tt.agg).Name(); got != tt.wantName {
				t.Errorf("Name() = %q, want %q", got, tt.wantName)
			}
		})
	}
}

func predictionTable(t *testing.T) *recommend.RatingTable {
	t.Helper()
	return buildTable(t, map[int]map[int]float64{
		1: {1: 5},
		2: {10: 4, 11: 2},
		3: {10: 2, 12: 5},
		4: {10: 3, 11: 4, 12: 1},
	})
}

func predictionHood(size int) recommend.Neighborhood {
	return recommend.SelectNeighborhood([]recommend.SimilarityScore{
		{UserID: 2, Score: 0.9, CoRated: 2},
		{UserID: 3, Score: 0.5, CoRated: 2},
		{UserID: 4, Score: -0.5, CoRated: 2},
	}, size)
}

func TestKNNPredictor_Mean(t *testing.T) {
	table := predictionTable(t)
	p := NewKNNPredictor(recommend.AggregationMean)

	tests := []struct {
		name        string
		size        int
		item        int
		wantScore   float64
		wantSupport int
	}{
		{"uses all when size allows", 11, 10, 3, 3},
		{"stops at size contributions", 2, 10, 3, 2},
		{"size one takes best rated neighbor", 1, 10, 4, 1},
		{"skips neighbors without rating", 1, 12, 5, 1},
		{"walks past gaps", 2, 12, 3, 2},
		{"no neighbor rated", 11, 99, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preds, err := p.Predict(context.Background(), 1, []int{tt.item}, predictionHood(tt.size), table)
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			if len(preds) != 1 {
				t.Fatalf("got %d predictions, want 1", len(preds))
			}
			got := preds[0]
			if math.Abs(got.Score-tt.wantScore) > floatTolerance {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Support != tt.wantSupport {
				t.Errorf("Support = %d, want %d", got.Support, tt.wantSupport)
			}
			if got.UserID != 1 || got.ItemID != tt.item {
				t.Errorf("prediction for (%d, %d), want (1, %d)", got.UserID, got.ItemID, tt.item)
			}
		})
	}
}

func TestKNNPredictor_Weighted(t *testing.T) {
	table := predictionTable(t)
	p := NewKNNPredictor(recommend.AggregationWeighted)

	t.Run("similarity weighted mean", func(t *testing.T) {
		preds, err := p.Predict(context.Background(), 1, []int{10}, predictionHood(11), table)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		// (0.9*4 + 0.5*2 - 0.5*3) / (0.9 + 0.5 + 0.5)
		want := (3.6 + 1.0 - 1.5) / 1.9
		if math.Abs(preds[0].Score-want) > floatTolerance {
			t.Errorf("Score = %v, want %v", preds[0].Score, want)
		}
		if preds[0].Support != 3 {
			t.Errorf("Support = %d, want 3", preds[0].Support)
		}
	})

	t.Run("ignores neighbors without overlap", func(t *testing.T) {
		hood := recommend.SelectNeighborhood([]recommend.SimilarityScore{
			{UserID: 2, Score: recommend.NoOverlapScore},
			{UserID: 3, Score: 0},
		}, 5)
		preds, err := p.Predict(context.Background(), 1, []int{10}, hood, table)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if preds[0].Support != 0 || preds[0].Score != 0 {
			t.Errorf("prediction = %+v, want unsupported", preds[0])
		}
	})
}

func TestKNNPredictor_Ordering(t *testing.T) {
	table := predictionTable(t)
	p := NewKNNPredictor(recommend.AggregationMean)

	items := []int{99, 12, 11, 10, 12}
	preds, err := p.Predict(context.Background(), 1, items, predictionHood(1), table)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	// size 1: item 10 -> 4, item 11 -> 2, item 12 -> 5, item 99 -> unsupported
	want := []int{12, 10, 11, 99}
	if len(preds) != len(want) {
		t.Fatalf("got %d predictions, want %d (duplicates collapsed)", len(preds), len(want))
	}
	for i, item := range want {
		if preds[i].ItemID != item {
			t.Errorf("rank %d: item %d, want %d", i, preds[i].ItemID, item)
		}
	}
	if items[0] != 99 || items[4] != 12 {
		t.Error("input items were modified")
	}
}

func TestKNNPredictor_TiesByItemID(t *testing.T) {
	table := buildTable(t, map[int]map[int]float64{
		1: {1: 1},
		2: {30: 4, 20: 4, 10: 4},
	})
	hood := recommend.SelectNeighborhood([]recommend.SimilarityScore{{UserID: 2, Score: 1, CoRated: 1}}, 3)

	preds, err := NewKNNPredictor(recommend.AggregationMean).Predict(context.Background(), 1, []int{30, 10, 20}, hood, table)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i, want := range []int{10, 20, 30} {
		if preds[i].ItemID != want {
			t.Errorf("rank %d: item %d, want %d", i, preds[i].ItemID, want)
		}
	}
}

func TestKNNPredictor_SupportProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(3)) //nolint:gosec // deterministic test data
	table := randomTable(t, rng, 25, 15, 0.35)
	pearson := NewPearson()

	for _, agg := range []recommend.Aggregation{recommend.AggregationMean, recommend.AggregationWeighted} {
		p := NewKNNPredictor(agg)
		for _, size := range []int{1, 3, 11} {
			for _, user := range table.Users() {
				sims, err := pearson.ComputeSimilarities(context.Background(), user, table)
				if err != nil {
					t.Fatalf("ComputeSimilarities() error = %v", err)
				}
				hood := recommend.SelectNeighborhood(sims, size)
				preds, err := p.Predict(context.Background(), user, table.Items(), hood, table)
				if err != nil {
					t.Fatalf("Predict() error = %v", err)
				}

				for _, pred := range preds {
					if pred.Support > size {
						t.Fatalf("%s size %d user %d item %d: support %d exceeds size",
							agg, size, user, pred.ItemID, pred.Support)
					}
					if agg == recommend.AggregationMean && pred.Support == 0 && anyNeighborRated(hood, table, pred.ItemID) {
						t.Fatalf("size %d user %d item %d: support 0 but a neighbor rated it",
							size, user, pred.ItemID)
					}
					if pred.Support == 0 && pred.Score != 0 {
						t.Fatalf("unsupported prediction has score %v", pred.Score)
					}
				}
			}
		}
	}
}

func anyNeighborRated(hood recommend.Neighborhood, table *recommend.RatingTable, item int) bool {
	for _, n := range hood.Neighbors {
		if _, ok := table.Rating(n.UserID, item); ok {
			return true
		}
	}
	return false
}

func TestKNNPredictor_Errors(t *testing.T) {
	table := predictionTable(t)
	p := NewKNNPredictor(recommend.AggregationMean)

	t.Run("non-positive size", func(t *testing.T) {
		_, err := p.Predict(context.Background(), 1, []int{10}, predictionHood(0), table)
		if err == nil {
			t.Error("Predict() = nil error, want error for size 0")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Predict(ctx, 1, []int{10}, predictionHood(3), table)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Predict() error = %v, want context.Canceled", err)
		}
	})
}

func TestPipeline_EndToEnd(t *testing.T) {
	// User 2 shares two identical ratings with user 1 (zero variance);
	// user 3 shares two ratings that move with user 1's.
	table := buildTable(t, map[int]map[int]float64{
		1: {1: 5, 2: 3, 3: 4},
		2: {1: 4, 2: 4, 4: 2},
		3: {1: 5, 3: 2, 4: 5},
	})

	sims, err := NewPearson().ComputeSimilarities(context.Background(), 1, table)
	if err != nil {
		t.Fatalf("ComputeSimilarities() error = %v", err)
	}
	hood := recommend.SelectNeighborhood(sims, 1)

	if hood.Neighbors[0].UserID != 3 || hood.Neighbors[1].UserID != 2 {
		t.Fatalf("neighborhood = %+v, want user 3 ranked above user 2", hood.Neighbors)
	}

	preds, err := NewKNNPredictor(recommend.AggregationMean).Predict(context.Background(), 1, []int{4}, hood, table)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if preds[0].Score != 5 || preds[0].Support != 1 {
		t.Errorf("prediction = %+v, want score 5 from user 3", preds[0])
	}
}
