// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

// Package dataset reads and writes MovieLens-style delimited files.
//
// # Formats
//
// Ratings, one per line:
//
//	UserID::MovieID::Rating::Timestamp
//
// The timestamp column is optional. Items, one per line:
//
//	MovieID::Title::Genre1|Genre2
//
// Item files are ISO-8859-1 encoded, as shipped by MovieLens, and are
// decoded to UTF-8 on read. The delimiter defaults to "::" and can be
// changed through Options.
//
// # Errors
//
// A malformed line aborts the load with a *ParseError carrying the file
// and line number. Blank lines are skipped.
//
// # Splitting
//
// SplitFile shuffles the non-blank lines of a file and writes
// {path}_train and {path}_test next to it.
package dataset
