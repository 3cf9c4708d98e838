// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package storage

import (
	"context"
	"time"

	"github.com/tomtom215/cfbench/internal/cache"
	"github.com/tomtom215/cfbench/internal/recommend"
)

// MemoryCache keeps results in an in-process LRU. Entries do not survive
// the process.
type MemoryCache struct {
	lru *cache.LRU[recommend.UserResult]
}

// NewMemoryCache creates a memory cache. Non-positive arguments select the
// cache package defaults.
func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: cache.NewLRU[recommend.UserResult](capacity, ttl)}
}

// Get implements recommend.Cache.
func (m *MemoryCache) Get(ctx context.Context, key recommend.CacheKey) (recommend.UserResult, error) {
	if err := ctx.Err(); err != nil {
		return recommend.UserResult{}, err
	}
	result, ok := m.lru.Get(key.String())
	if !ok {
		return recommend.UserResult{}, recommend.ErrCacheMiss
	}
	return cloneResult(result), nil
}

// Set implements recommend.Cache.
func (m *MemoryCache) Set(ctx context.Context, key recommend.CacheKey, result recommend.UserResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.lru.Set(key.String(), cloneResult(result))
	return nil
}

// Close drops every entry.
func (m *MemoryCache) Close() error {
	m.lru.Clear()
	return nil
}

// Stats returns LRU statistics.
func (m *MemoryCache) Stats() cache.Stats {
	return m.lru.Stats()
}
