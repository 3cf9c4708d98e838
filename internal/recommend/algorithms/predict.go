// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package algorithms

import (
	"context"
	"fmt"
	"math"

	"github.com/tomtom215/cfbench/internal/recommend"
)

// KNNPredictor predicts ratings from the first Neighborhood.Size neighbor
// ratings of each item.
type KNNPredictor struct {
	aggregation recommend.Aggregation
}

// NewKNNPredictor creates a predictor. An unknown aggregation falls back to
// recommend.AggregationMean.
func NewKNNPredictor(agg recommend.Aggregation) *KNNPredictor {
	if !agg.Valid() {
		agg = recommend.AggregationMean
	}
	return &KNNPredictor{aggregation: agg}
}

// Name returns the predictor identifier, e.g. "knn-mean".
func (k *KNNPredictor) Name() string {
	return "knn-" + string(k.aggregation)
}

// Aggregation returns the configured aggregation strategy.
func (k *KNNPredictor) Aggregation() recommend.Aggregation {
	return k.aggregation
}

// Predict returns one prediction per distinct item, sorted by score
// descending, ties by item id ascending.
func (k *KNNPredictor) Predict(ctx context.Context, userID int, items []int, hood recommend.Neighborhood, table *recommend.RatingTable) ([]recommend.Prediction, error) {
	if hood.Size < 1 {
		return nil, fmt.Errorf("neighborhood size must be positive, got %d", hood.Size)
	}

	unique := recommend.UniqueItems(items)
	preds := make([]recommend.Prediction, 0, len(unique))

	for _, item := range unique {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		var score float64
		var support int
		if k.aggregation == recommend.AggregationWeighted {
			score, support = weightedMean(item, hood, table)
		} else {
			score, support = mean(item, hood, table)
		}

		preds = append(preds, recommend.Prediction{
			UserID:  userID,
			ItemID:  item,
			Score:   score,
			Support: support,
		})
	}

	recommend.SortPredictions(preds)
	return preds, nil
}

// mean averages neighbor ratings of item until hood.Size are collected.
func mean(item int, hood recommend.Neighborhood, table *recommend.RatingTable) (float64, int) {
	var sum float64
	count := 0

	hood.Walk(func(s recommend.SimilarityScore) bool {
		r, ok := table.Rating(s.UserID, item)
		if !ok {
			return true
		}
		sum += r
		count++
		return count < hood.Size
	})

	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

// weightedMean is sum(sim * r) / sum(|sim|) over neighbors with a defined,
// non-zero similarity, capped at hood.Size contributions.
func weightedMean(item int, hood recommend.Neighborhood, table *recommend.RatingTable) (float64, int) {
	var sum, weight float64
	count := 0

	hood.Walk(func(s recommend.SimilarityScore) bool {
		if !s.HasOverlap() || s.Score == 0 {
			return true
		}
		r, ok := table.Rating(s.UserID, item)
		if !ok {
			return true
		}
		sum += s.Score * r
		weight += math.Abs(s.Score)
		count++
		return count < hood.Size
	})

	if count == 0 || weight == 0 {
		return 0, 0
	}
	return sum / weight, count
}
