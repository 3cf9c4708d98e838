// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

// Package storage provides recommend.Cache backends for per-user pipeline results.
//
// A cached result is the neighborhood and prediction list computed for one
// user. Keys carry a digest of every input that shaped the result (see
// recommend.InputHash), so entries never need explicit invalidation: a
// changed training table or request simply hashes to a new key.
//
// # Backends
//
//   - memory: in-process LRU with TTL (internal/cache)
//   - badger: embedded on-disk store, JSON values, native TTL
//   - redis: shared remote store behind a circuit breaker
//   - file: one gzip-compressed gob file per user with a SHA-256 checksum
//
// # Usage
//
//	c, err := storage.New(storage.Config{Backend: storage.BackendBadger, Path: "./cache"}, logger)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//	engine.SetCache(c)
//
// # Errors
//
// Get returns recommend.ErrCacheMiss for absent or expired entries. The redis
// backend returns recommend.ErrCacheUnavailable while its breaker is open.
// Corrupted entries surface as ordinary errors, which the engine counts and
// treats as misses.
package storage
