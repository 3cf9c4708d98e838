// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

// Package database persists benchmark runs and their predictions in DuckDB.
//
// # Overview
//
// Each evaluation run is stored as one row in runs, holding the run
// configuration and its summary metrics, plus one row per (user, item)
// prediction in predictions. Undefined metrics (no matched pairs, empty
// denominators) are stored as NULL rather than as a numeric sentinel.
//
// # Files
//
//   - database.go: connection lifecycle
//   - database_schema.go: versioned schema migrations
//   - runs.go: run summaries
//   - predictions.go: per-prediction rows, batch insert in one transaction
//   - errors.go: sentinel errors and close helpers
//
// # Usage
//
//	db, err := database.Open(database.Config{Path: "cfbench.duckdb"}, logger)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.SaveRun(ctx, run); err != nil {
//	    return err
//	}
//	n, err := db.SavePredictions(ctx, run.RunID, records)
//
// Tests open ":memory:" databases.
package database
