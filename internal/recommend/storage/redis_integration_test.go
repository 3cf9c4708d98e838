// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

//go:build integration

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cfbench/internal/testinfra"
)

func TestRedisCache_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	server := testinfra.StartRedis(t, ctx)

	c, err := OpenRedisCache(ctx, RedisConfig{Addr: server.Addr, TTL: time.Hour}, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenRedisCache() error = %v", err)
	}
	defer c.Close()

	exerciseCache(t, c)

	ttl, err := c.client.TTL(ctx, sampleKey(1).String()).Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("TTL = %v, want within (0, 1h]", ttl)
	}
}
