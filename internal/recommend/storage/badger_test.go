// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

func setupTestBadger(t *testing.T) *BadgerCache {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Disable logging for tests

	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	c := NewBadgerCache(db, time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestBadgerCache(t *testing.T) {
	exerciseCache(t, setupTestBadger(t))
}

func TestBadgerCache_Len(t *testing.T) {
	ctx := context.Background()
	c := setupTestBadger(t)

	for id := 1; id <= 3; id++ {
		if err := c.Set(ctx, sampleKey(id), sampleResult(id)); err != nil {
			t.Fatalf("Set(%d) error = %v", id, err)
		}
	}

	n, err := c.Len()
	if err != nil {
		t.Fatalf("Len() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Len() = %d, want 3", n)
	}
}

func TestBadgerCache_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := OpenBadgerCache(dir, 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenBadgerCache() error = %v", err)
	}
	want := sampleResult(5)
	if err := c.Set(ctx, sampleKey(5), want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenBadgerCache(dir, 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, sampleKey(5))
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	assertSameResult(t, got, want)
}

func TestBadgerCache_CorruptValue(t *testing.T) {
	ctx := context.Background()
	c := setupTestBadger(t)

	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(sampleKey(1).String()), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}

	if _, err := c.Get(ctx, sampleKey(1)); err == nil {
		t.Error("Get() on corrupt value should fail")
	}
}
