// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

// Package evaluation splits rating data and scores predictions against
// held-out ratings.
//
// # Splitting
//
// Split shuffles a copy of the input with a caller-supplied random source
// and cuts it once at floor(n * fraction): the first part is the training
// set, the rest the test set. Every record lands in exactly one set.
//
// # Metrics
//
// Error metrics (MAE, RMSE) are computed over predictions that have a
// ground-truth rating for the same (user, item) pair. Relevance metrics
// (precision, recall) score each user's top-N recommendations that appear in
// the ground truth, counting a rating above the threshold as relevant:
//
//	true positive:  predicted > threshold and actual > threshold
//	false positive: predicted > threshold and actual <= threshold
//	false negative: predicted <= threshold and actual > threshold
//
// A metric whose denominator is zero is reported as undefined through
// Metric.Defined rather than as NaN or zero.
package evaluation
