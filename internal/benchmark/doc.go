// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

/*
Package benchmark wires the dataset, recommendation, evaluation and storage
packages into the operations exposed by the cfbench command.

# Evaluation Run

Runner.Evaluate performs one complete benchmark:

 1. Load the ratings file (internal/dataset)
 2. Split it into train and test sets with the configured seed, optionally
    writing <ratings>_train and <ratings>_test
 3. Build a RatingTable from the training ratings
 4. Predict every held-out rating of every training user on the engine's
    worker pool; test users without training ratings are skipped and counted
 5. Compute MAE, RMSE, precision and recall (internal/recommend/evaluation)
 6. Persist the run summary and predictions to DuckDB when enabled
 7. Write the Prometheus textfile when enabled

The returned Report is what the command prints.

# Interactive Operations

Recommend predicts every unrated item for one user over the full dataset,
optionally filtered by a CEL expression (internal/catalog), and
ShowUserRatings lists what a user has rated. Both join results with the item
catalog when one is configured.
*/
package benchmark
