// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

// Package recommend implements the user-based collaborative filtering core.
//
// # Architecture
//
// The package holds the shared domain model and the per-user pipeline:
//
//   - RatingTable: immutable, indexed (user, item, score) relation
//   - SimilarityEngine: scores every other user against a target user
//   - Neighborhood: similarity-ordered neighbors consumed lazily by prediction
//   - RatingPredictor: aggregates neighbor ratings into Predictions
//   - Engine: runs the pipeline for many users on a bounded worker pool
//
// Concrete algorithms live in the algorithms subpackage, the train/test
// splitter and error/relevance metrics in the evaluation subpackage, and
// cache backends in the storage subpackage.
//
// # Design Principles
//
//   - Deterministic: ties are broken by ascending numeric id, splits are seeded
//   - Pure: predictions are computed from immutable inputs into new slices
//   - Optional caching: the Engine works identically with a nil Cache
//   - Observable: per-run counters are exposed through Engine.Stats
//
// # Usage
//
//	table, err := recommend.NewRatingTable(train)
//	engine, err := recommend.NewEngine(cfg, algorithms.NewPearson(),
//	    algorithms.NewKNNPredictor(cfg.Aggregation), logger)
//
//	results, err := engine.RunBatch(ctx, table, targets)
//
// # Thread Safety
//
// RatingTable is read-only after construction and is shared between workers
// without locking. Engine is safe for concurrent use.
package recommend
