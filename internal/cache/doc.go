// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

/*
Package cache provides a thread-safe generic in-memory LRU cache with TTL
support.

# Overview

The cache provides:
  - Thread-safe concurrent access
  - Least-recently-used eviction at a fixed capacity
  - Time-to-live (TTL) expiration, checked lazily on Get
  - Typed values through generics

The recommend/storage package wraps LRU as the in-process result cache.

# Usage

	c := cache.NewLRU[recommend.UserResult](10000, time.Hour)
	c.Set(key.String(), result)
	if r, ok := c.Get(key.String()); ok {
	    // Use cached result
	}

# Thread Safety

All methods are safe for concurrent use.
*/
package cache
