// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

// Package query provides parameterized WHERE clause construction for the
// database package.
//
// Column names are supplied by the caller and never come from user input;
// values are always bound through "?" placeholders.
package query
