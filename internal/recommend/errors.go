// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package recommend

import "errors"

var (
	// ErrDuplicateRating is returned when a (user, item) pair occurs twice.
	ErrDuplicateRating = errors.New("duplicate rating for user/item pair")

	// ErrInvalidScore is returned for NaN or infinite rating scores.
	ErrInvalidScore = errors.New("rating score must be finite")

	// ErrEmptyTable is returned when an operation needs at least one rating.
	ErrEmptyTable = errors.New("rating table is empty")

	// ErrCacheMiss is returned by Cache.Get when no entry exists.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned by caches whose backend cannot be reached.
	// The engine treats it as a miss.
	ErrCacheUnavailable = errors.New("cache unavailable")
)
