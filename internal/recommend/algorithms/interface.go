// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package algorithms

import (
	"context"

	"github.com/tomtom215/cfbench/internal/recommend"
)

// Ensure all algorithms implement the pipeline interfaces.
var (
	_ recommend.SimilarityEngine = (*Pearson)(nil)
	_ recommend.RatingPredictor  = (*KNNPredictor)(nil)
)

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
