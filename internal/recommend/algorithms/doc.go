// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

// Package algorithms implements the similarity and prediction stages of the
// user-based collaborative filtering pipeline.
//
// # Similarity
//
// Pearson scores every other user in a RatingTable against a target user
// using the Pearson correlation restricted to co-rated items:
//
//	mean_a = avg(r_a,i), mean_b = avg(r_b,i)              over co-rated i
//	num    = sum((r_a,i - mean_a) * (r_b,i - mean_b))
//	sim    = num / (sqrt(sum((r_a,i - mean_a)^2)) * sqrt(sum((r_b,i - mean_b)^2)))
//
// Users without a co-rated item score recommend.NoOverlapScore (-1) with
// CoRated 0. A zero numerator, which covers zero variance on either side,
// scores 0.
//
// # Prediction
//
// KNNPredictor walks the neighborhood in similarity order and collects the
// ratings neighbors gave the item until Neighborhood.Size contributions are
// gathered. The default aggregation is the plain mean of those ratings; the
// weighted aggregation divides the similarity-weighted sum by the total
// absolute similarity of the contributing neighbors.
//
// # Usage Example
//
//	pearson := algorithms.NewPearson()
//	sims, err := pearson.ComputeSimilarities(ctx, userID, table)
//	if err != nil {
//	    return err
//	}
//
//	hood := recommend.SelectNeighborhood(sims, 11)
//	preds, err := algorithms.NewKNNPredictor(recommend.AggregationMean).
//	    Predict(ctx, userID, heldOutItems, hood, table)
//
// # Thread Safety
//
// Pearson and KNNPredictor are stateless and safe for concurrent use.
package algorithms
