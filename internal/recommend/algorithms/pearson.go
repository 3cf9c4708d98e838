// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package algorithms

import (
	"context"
	"math"
	"sort"

	"github.com/tomtom215/cfbench/internal/recommend"
)

// Pearson computes user-user Pearson correlation over co-rated items.
type Pearson struct{}

// NewPearson creates a Pearson similarity engine.
func NewPearson() *Pearson {
	return &Pearson{}
}

// Name returns the similarity identifier.
func (p *Pearson) Name() string {
	return "pearson"
}

// ComputeSimilarities scores every other user in the table against userID.
// A user absent from the table has no overlap with anyone.
func (p *Pearson) ComputeSimilarities(ctx context.Context, userID int, table *recommend.RatingTable) ([]recommend.SimilarityScore, error) {
	target := table.UserRatings(userID)
	users := table.Users()

	sims := make([]recommend.SimilarityScore, 0, len(users))
	for _, other := range users {
		if other == userID {
			continue
		}
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		score, coRated := Correlate(target, table.UserRatings(other))
		sims = append(sims, recommend.SimilarityScore{
			UserID:  other,
			Score:   score,
			CoRated: coRated,
		})
	}

	recommend.SortSimilarities(sims)
	return sims, nil
}

// Correlate returns the Pearson correlation of two rating vectors over their
// co-rated items and the number of co-rated items.
// No overlap yields recommend.NoOverlapScore.
func Correlate(a, b map[int]float64) (float64, int) {
	common := commonItems(a, b)
	if len(common) == 0 {
		return recommend.NoOverlapScore, 0
	}

	var sumA, sumB float64
	for _, item := range common {
		sumA += a[item]
		sumB += b[item]
	}
	meanA := sumA / float64(len(common))
	meanB := sumB / float64(len(common))

	var num, denA, denB float64
	for _, item := range common {
		diffA := a[item] - meanA
		diffB := b[item] - meanB
		num += diffA * diffB
		denA += diffA * diffA
		denB += diffB * diffB
	}

	if num == 0 {
		return 0, len(common)
	}

	sim := num / (math.Sqrt(denA) * math.Sqrt(denB))
	return clamp(sim, -1, 1), len(common)
}

// commonItems returns the items rated in both vectors in ascending order.
// Sorted iteration keeps the floating-point sums, and so the score, symmetric.
func commonItems(a, b map[int]float64) []int {
	if len(b) < len(a) {
		a, b = b, a
	}
	common := make([]int, 0, len(a))
	for item := range a {
		if _, ok := b[item]; ok {
			common = append(common, item)
		}
	}
	sort.Ints(common)
	return common
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
