// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package recommend

import (
	"context"
	"sort"
)

// NoOverlapScore is the similarity assigned to a pair of users without any
// co-rated item. It sorts below every defined correlation except an exact
// perfect negative one, which it is numerically equal to; use
// SimilarityScore.HasOverlap to tell the two apart.
const NoOverlapScore = -1.0

// Rating is a single explicit rating of an item by a user.
type Rating struct {
	// UserID is the rating user's identifier.
	UserID int `json:"user_id"`

	// ItemID is the rated item's identifier.
	ItemID int `json:"item_id"`

	// Score is the rating value, e.g. 1-5 stars.
	Score float64 `json:"score"`

	// Timestamp is the rating time in Unix seconds. Zero when absent.
	Timestamp int64 `json:"timestamp,omitempty"`
}

// SimilarityScore is the similarity of one user to a target user.
type SimilarityScore struct {
	// UserID is the compared (neighbor) user.
	UserID int `json:"user_id"`

	// Score is the Pearson correlation in [-1, 1], or NoOverlapScore.
	Score float64 `json:"score"`

	// CoRated is the number of items both users rated.
	CoRated int `json:"co_rated"`
}

// HasOverlap reports whether the score is backed by at least one co-rated item.
func (s SimilarityScore) HasOverlap() bool {
	return s.CoRated > 0
}

// Neighborhood is a similarity-ordered sequence of candidate neighbors.
type Neighborhood struct {
	// Neighbors is sorted by score descending, ties by ascending user id.
	Neighbors []SimilarityScore `json:"neighbors"`

	// Size is the number of rating contributions a prediction may draw
	// from the neighborhood, not the number of distinct neighbors.
	Size int `json:"size"`
}

// SelectNeighborhood orders similarities for consumption by a predictor.
// It does not filter; k only caps the number of contributions per prediction.
// The input slice is not modified.
func SelectNeighborhood(similarities []SimilarityScore, k int) Neighborhood {
	neighbors := make([]SimilarityScore, len(similarities))
	copy(neighbors, similarities)
	SortSimilarities(neighbors)
	return Neighborhood{Neighbors: neighbors, Size: k}
}

// Walk visits neighbors in order until fn returns false.
func (n Neighborhood) Walk(fn func(SimilarityScore) bool) {
	for _, s := range n.Neighbors {
		if !fn(s) {
			return
		}
	}
}

// Len returns the number of candidate neighbors.
func (n Neighborhood) Len() int {
	return len(n.Neighbors)
}

// SortSimilarities sorts in place by score descending, then user id ascending.
func SortSimilarities(sims []SimilarityScore) {
	sort.SliceStable(sims, func(i, j int) bool {
		if sims[i].Score != sims[j].Score {
			return sims[i].Score > sims[j].Score
		}
		return sims[i].UserID < sims[j].UserID
	})
}

// Prediction is the predicted rating of one item for one user.
type Prediction struct {
	// UserID is the user the prediction is for.
	UserID int `json:"user_id"`

	// ItemID is the predicted item.
	ItemID int `json:"item_id"`

	// Score is the predicted rating. Zero when Support is zero.
	Score float64 `json:"score"`

	// Support is the number of neighbor ratings that contributed.
	// Zero means no prediction was possible.
	Support int `json:"support"`
}

// Supported reports whether at least one neighbor rating backs the prediction.
func (p Prediction) Supported() bool {
	return p.Support > 0
}

// SortPredictions sorts in place by score descending, then item id ascending.
// Predictions for different users are ordered by user id first.
func SortPredictions(preds []Prediction) {
	sort.SliceStable(preds, func(i, j int) bool {
		if preds[i].UserID != preds[j].UserID {
			return preds[i].UserID < preds[j].UserID
		}
		if preds[i].Score != preds[j].Score {
			return preds[i].Score > preds[j].Score
		}
		return preds[i].ItemID < preds[j].ItemID
	})
}

// UserResult is the output of the per-user pipeline.
type UserResult struct {
	// UserID is the target user.
	UserID int `json:"user_id"`

	// Neighborhood is the ordered neighborhood used for prediction.
	Neighborhood Neighborhood `json:"neighborhood"`

	// Predictions is sorted by score descending, ties by item id.
	Predictions []Prediction `json:"predictions"`

	// CacheHit is true when the result was served from the cache.
	CacheHit bool `json:"-"`

	// Err is set when the user's pipeline failed or exceeded its budget.
	Err error `json:"-"`
}

// Aggregation selects how neighbor ratings are combined into a prediction.
type Aggregation string

const (
	// AggregationMean is the plain arithmetic mean of neighbor ratings.
	AggregationMean Aggregation = "mean"

	// AggregationWeighted weights each neighbor rating by its similarity.
	AggregationWeighted Aggregation = "weighted"
)

// Valid reports whether a is a known aggregation strategy.
func (a Aggregation) Valid() bool {
	switch a {
	case AggregationMean, AggregationWeighted:
		return true
	default:
		return false
	}
}

// SimilarityEngine computes the similarity of every other user to a target.
type SimilarityEngine interface {
	// Name returns the similarity identifier (e.g., "pearson").
	Name() string

	// ComputeSimilarities returns one score per other user in the table,
	// sorted by score descending with ties broken by ascending user id.
	ComputeSimilarities(ctx context.Context, userID int, table *RatingTable) ([]SimilarityScore, error)
}

// RatingPredictor predicts ratings from a neighborhood.
type RatingPredictor interface {
	// Name returns the predictor identifier (e.g., "knn-mean").
	Name() string

	// Predict returns one prediction per distinct item, sorted by score
	// descending with ties broken by ascending item id.
	Predict(ctx context.Context, userID int, items []int, hood Neighborhood, table *RatingTable) ([]Prediction, error)
}

// Stats contains per-engine counters for observability.
type Stats struct {
	// UsersProcessed is the number of users whose pipeline completed.
	UsersProcessed int64 `json:"users_processed"`

	// UsersFailed is the number of users whose pipeline failed or timed out.
	UsersFailed int64 `json:"users_failed"`

	// Predictions is the total number of predictions produced.
	Predictions int64 `json:"predictions"`

	// Unsupported is the number of predictions with zero support.
	Unsupported int64 `json:"unsupported"`

	// CacheHits is the number of cache hits.
	CacheHits int64 `json:"cache_hits"`

	// CacheMisses is the number of cache misses.
	CacheMisses int64 `json:"cache_misses"`

	// CacheErrors is the number of failed cache reads or writes.
	CacheErrors int64 `json:"cache_errors"`
}
