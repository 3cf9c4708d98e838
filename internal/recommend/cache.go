// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
	"strconv"
)

// Cache stores per-user pipeline results between runs.
//
// Implementations return ErrCacheMiss when a key is absent and may return
// ErrCacheUnavailable when their backend is down. The Engine treats every
// Get error as a miss and every Set error as non-fatal.
//
// Usage:
//
//	engine.SetCache(storage.NewMemoryCache(10000, time.Hour))
//	result, err := engine.Recommend(ctx, table, userID, items)
type Cache interface {
	// Get returns the cached result for key.
	Get(ctx context.Context, key CacheKey) (UserResult, error)

	// Set stores result under key.
	Set(ctx context.Context, key CacheKey, result UserResult) error

	// Close releases backend resources.
	Close() error
}

// CacheKey identifies a cached result: the user and a digest of every input
// that influences it.
type CacheKey struct {
	UserID    int
	InputHash string
}

// String renders the key in the storage namespace, e.g.
// "cfbench:user:42:9f86d0...".
func (k CacheKey) String() string {
	return "cfbench:user:" + strconv.Itoa(k.UserID) + ":" + k.InputHash
}

// InputHash digests the inputs of a per-user pipeline run: the training table
// contents, the requested items, the neighborhood size and the aggregation.
// Item order and duplicates do not affect the hash.
func InputHash(table *RatingTable, items []int, neighborhoodSize int, agg Aggregation) string {
	unique := UniqueItems(items)
	sort.Ints(unique)

	h := sha256.New()
	h.Write([]byte(table.Fingerprint()))

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(unique)))
	h.Write(buf[:])
	for _, item := range unique {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(item)))
		h.Write(buf[:])
	}

	binary.LittleEndian.PutUint64(buf[:], uint64(int64(neighborhoodSize)))
	h.Write(buf[:])
	h.Write([]byte(agg))

	return hex.EncodeToString(h.Sum(nil))
}

// UniqueItems returns items with duplicates removed, keeping first occurrence order.
func UniqueItems(items []int) []int {
	seen := make(map[int]struct{}, len(items))
	out := make([]int, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
