// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

// Package testinfra provides container-backed infrastructure for integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./...
//
// # Redis
//
// StartRedis starts a disposable Redis server for the redis cache backend
// and terminates it when the test finishes:
//
//	func TestRedisCache_Integration(t *testing.T) {
//	    ctx := context.Background()
//	    r := testinfra.StartRedis(t, ctx)
//	    c, err := storage.OpenRedisCache(ctx, storage.RedisConfig{Addr: r.Addr}, logger)
//	    // ...
//	}
//
// Tests are skipped when Docker is not available.
package testinfra
