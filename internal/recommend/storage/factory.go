// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cfbench/internal/recommend"
)

// Backend names a cache implementation.
type Backend string

const (
	// BackendNone disables caching.
	BackendNone Backend = "none"

	// BackendMemory uses an in-process LRU.
	BackendMemory Backend = "memory"

	// BackendBadger uses an embedded BadgerDB at Config.Path.
	BackendBadger Backend = "badger"

	// BackendRedis uses a Redis server at Config.Addr.
	BackendRedis Backend = "redis"

	// BackendFile writes one file per result under Config.Path.
	BackendFile Backend = "file"
)

// Valid reports whether b names a known backend. The empty string is
// treated as BackendNone.
func (b Backend) Valid() bool {
	switch b {
	case "", BackendNone, BackendMemory, BackendBadger, BackendRedis, BackendFile:
		return true
	default:
		return false
	}
}

// Config selects and configures a cache backend.
type Config struct {
	Backend Backend

	// Path is the badger directory or the file cache directory.
	Path string

	// Addr, Password and DB address the redis server.
	Addr     string
	Password string
	DB       int

	// TTL is the entry lifetime for every backend. Zero means no expiry,
	// except for memory where it selects the default.
	TTL time.Duration

	// Capacity bounds the memory backend.
	Capacity int

	// ConnectTimeout bounds the initial redis PING.
	ConnectTimeout time.Duration

	BreakerThreshold uint32
	BreakerTimeout   time.Duration
}

// New builds the configured cache. It returns a nil Cache and nil error for
// BackendNone, which the engine accepts as "caching disabled".
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, logger zerolog.Logger) (recommend.Cache, error) {
	logger = logger.With().Str("component", "cache").Str("backend", string(cfg.Backend)).Logger()

	switch cfg.Backend {
	case "", BackendNone:
		return nil, nil //nolint:nilnil // a nil cache disables caching

	case BackendMemory:
		logger.Debug().Int("capacity", cfg.Capacity).Dur("ttl", cfg.TTL).Msg("using memory cache")
		return NewMemoryCache(cfg.Capacity, cfg.TTL), nil

	case BackendBadger:
		c, err := OpenBadgerCache(cfg.Path, cfg.TTL, logger)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("path", cfg.Path).Msg("using badger cache")
		return c, nil

	case BackendRedis:
		timeout := cfg.ConnectTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		c, err := OpenRedisCache(ctx, RedisConfig{
			Addr:             cfg.Addr,
			Password:         cfg.Password,
			DB:               cfg.DB,
			TTL:              cfg.TTL,
			BreakerThreshold: cfg.BreakerThreshold,
			BreakerTimeout:   cfg.BreakerTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("addr", cfg.Addr).Msg("using redis cache")
		return c, nil

	case BackendFile:
		c, err := NewFileCache(cfg.Path, cfg.TTL)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("path", cfg.Path).Msg("using file cache")
		return c, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
