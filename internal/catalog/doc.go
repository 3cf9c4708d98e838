// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

// Package catalog joins item metadata onto predictions and filters
// recommendation lists with CEL expressions.
//
// # Filter Expressions
//
// Filters are CEL (Common Expression Language) boolean expressions over:
//
//	item.id       int
//	item.title    string
//	item.genres   list(string)
//	predicted     double   predicted rating
//	support       int      contributing neighbor ratings
//
// Examples:
//
//	"Comedy" in item.genres
//	predicted >= 4.0 && support >= 3
//	item.title.contains("(1995)") && !("Horror" in item.genres)
//
// Items missing from the catalog evaluate with an empty title and no genres.
package catalog
