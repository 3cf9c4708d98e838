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

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cfbench/internal/logging"
	"github.com/tomtom215/cfbench/internal/recommend"
)

// BadgerCache persists results in an embedded BadgerDB.
type BadgerCache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerCache opens (or creates) a BadgerDB at path. An empty path opens
// an in-memory database. A zero ttl keeps entries forever.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func OpenBadgerCache(path string, ttl time.Duration, logger zerolog.Logger) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(logging.NewBadgerLogger(logger))

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache at %q: %w", path, err)
	}
	return NewBadgerCache(db, ttl), nil
}

// NewBadgerCache wraps an already open database. Close closes db.
func NewBadgerCache(db *badger.DB, ttl time.Duration) *BadgerCache {
	return &BadgerCache{db: db, ttl: ttl}
}

// Get implements recommend.Cache.
func (b *BadgerCache) Get(ctx context.Context, key recommend.CacheKey) (recommend.UserResult, error) {
	if err := ctx.Err(); err != nil {
		return recommend.UserResult{}, err
	}

	var result recommend.UserResult
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.String()))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return recommend.ErrCacheMiss
		}
		if err != nil {
			return fmt.Errorf("get cached result: %w", err)
		}

		return item.Value(func(val []byte) error {
			decoded, err := decodeJSON(val)
			if err != nil {
				return err
			}
			result = decoded
			return nil
		})
	})
	if err != nil {
		return recommend.UserResult{}, err
	}
	return result, nil
}

// Set implements recommend.Cache.
func (b *BadgerCache) Set(ctx context.Context, key recommend.CacheKey, result recommend.UserResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeJSON(result)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key.String()), data)
		if b.ttl > 0 {
			entry = entry.WithTTL(b.ttl)
		}
		if err := txn.SetEntry(entry); err != nil {
			return fmt.Errorf("set cached result: %w", err)
		}
		return nil
	})
}

// Len counts live entries.
func (b *BadgerCache) Len() (int, error) {
	count := 0
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Close closes the database.
func (b *BadgerCache) Close() error {
	return b.db.Close()
}
