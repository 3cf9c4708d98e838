// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

// Package main is the entry point for the cfbench command line tool.
//
// cfbench predicts ratings with user-based collaborative filtering (Pearson
// similarity over co-rated items, k nearest neighbors) and measures the
// predictions against a held-out test split.
//
// # Commands
//
//	cfbench [-config path] evaluate   Split, predict every test pair, report MAE/RMSE/precision/recall
//	cfbench [-config path] recommend  Rank the unrated items of one user
//	cfbench [-config path] split      Write <ratings>_train and <ratings>_test
//	cfbench [-config path] show       List the items one user rated
//	cfbench [-config path] runs       List persisted evaluation runs or one run's predictions
//
// Run "cfbench <command> -h" for the flags of a command. Command flags
// override the loaded configuration for that invocation only.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Command flags
//   - Environment variables (CFBENCH_ prefix, e.g. CFBENCH_NEIGHBORHOOD_SIZE)
//   - Config file (-config, CFBENCH_CONFIG, or cfbench.yaml in the working directory)
//   - Built-in defaults
//
// # Output
//
// Results are written to stdout as JSON. The evaluate report goes to
// output.report_path instead when it is set. Logs go to stderr.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the running command. Users already in flight
// finish or fail with a cancellation error, and open stores are closed
// before exit.
//
// # Example Usage
//
//	./cfbench -config cfbench.yaml evaluate -k 20 -seed 7
//	./cfbench recommend -user 42 -limit 5 -filter '"Comedy" in item.genres'
//	CFBENCH_CACHE_BACKEND=badger CFBENCH_CACHE_PATH=/tmp/cfcache ./cfbench evaluate
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/cfbench/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		os.Exit(2)
	case errors.Is(err, context.Canceled):
		logging.Warn().Msg("Interrupted")
		os.Exit(130)
	default:
		logging.Fatal().Err(err).Msg("cfbench failed")
	}
}
