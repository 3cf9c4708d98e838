// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cfbench/internal/recommend"
)

// Circuit breaker defaults for the redis backend.
const (
	DefaultBreakerThreshold = 5
	DefaultBreakerTimeout   = 30 * time.Second
)

// RedisConfig configures a RedisCache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// TTL is the entry expiration. Zero keeps entries forever.
	TTL time.Duration

	// BreakerThreshold is the number of consecutive failures that opens
	// the breaker.
	BreakerThreshold uint32

	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration
}

// RedisCache stores results in Redis. Every call goes through a circuit
// breaker so an unreachable server costs one fast rejection per user instead
// of a dial timeout.
type RedisCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	ttl     time.Duration
	logger  zerolog.Logger
}

// OpenRedisCache connects to Redis and verifies the connection with PING.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func OpenRedisCache(ctx context.Context, cfg RedisConfig, logger zerolog.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // ping failure is the error being reported
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	return NewRedisCache(client, cfg, logger), nil
}

// NewRedisCache wraps an existing client. Close closes client.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRedisCache(client *redis.Client, cfg RedisConfig, logger zerolog.Logger) *RedisCache {
	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = DefaultBreakerThreshold
	}
	timeout := cfg.BreakerTimeout
	if timeout <= 0 {
		timeout = DefaultBreakerTimeout
	}

	logger = logger.With().Str("component", "redis-cache").Logger()

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &RedisCache{
		client:  client,
		breaker: breaker,
		ttl:     cfg.TTL,
		logger:  logger,
	}
}

// Get implements recommend.Cache.
func (r *RedisCache) Get(ctx context.Context, key recommend.CacheKey) (recommend.UserResult, error) {
	val, err := r.breaker.Execute(func() ([]byte, error) {
		v, err := r.client.Get(ctx, key.String()).Bytes()
		if errors.Is(err, redis.Nil) {
			// A miss is a healthy response.
			return nil, nil
		}
		return v, err
	})
	if err != nil {
		return recommend.UserResult{}, r.wrap("get", err)
	}
	if val == nil {
		return recommend.UserResult{}, recommend.ErrCacheMiss
	}
	return decodeJSON(val)
}

// Set implements recommend.Cache.
func (r *RedisCache) Set(ctx context.Context, key recommend.CacheKey, result recommend.UserResult) error {
	data, err := encodeJSON(result)
	if err != nil {
		return err
	}

	_, err = r.breaker.Execute(func() ([]byte, error) {
		return nil, r.client.Set(ctx, key.String(), data, r.ttl).Err()
	})
	if err != nil {
		return r.wrap("set", err)
	}
	return nil
}

// State returns the breaker state.
func (r *RedisCache) State() gobreaker.State {
	return r.breaker.State()
}

// Close closes the client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// wrap maps breaker rejections to ErrCacheUnavailable.
func (r *RedisCache) wrap(op string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("redis %s: %w: %w", op, recommend.ErrCacheUnavailable, err)
	}
	return fmt.Errorf("redis %s: %w", op, err)
}
