// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/cfbench/internal/recommend"
)

func sampleResult(userID int) recommend.UserResult {
	return recommend.UserResult{
		UserID: userID,
		Neighborhood: recommend.Neighborhood{
			Neighbors: []recommend.SimilarityScore{
				{UserID: 3, Score: 1, CoRated: 2},
				{UserID: 2, Score: -1, CoRated: 0},
			},
			Size: 11,
		},
		Predictions: []recommend.Prediction{
			{UserID: userID, ItemID: 4, Score: 5, Support: 1},
			{UserID: userID, ItemID: 9, Score: 0, Support: 0},
		},
	}
}

func sampleKey(userID int) recommend.CacheKey {
	return recommend.CacheKey{UserID: userID, InputHash: "9f86d081884c7d65"}
}

// assertSameResult compares the persisted fields of two results.
func assertSameResult(t *testing.T, got, want recommend.UserResult) {
	t.Helper()

	if got.UserID != want.UserID {
		t.Errorf("UserID = %d, want %d", got.UserID, want.UserID)
	}
	if !reflect.DeepEqual(got.Neighborhood, want.Neighborhood) {
		t.Errorf("Neighborhood = %+v, want %+v", got.Neighborhood, want.Neighborhood)
	}
	if !reflect.DeepEqual(got.Predictions, want.Predictions) {
		t.Errorf("Predictions = %+v, want %+v", got.Predictions, want.Predictions)
	}
	if got.CacheHit {
		t.Error("CacheHit should not be persisted")
	}
}

// exerciseCache runs the behavior every backend shares.
func exerciseCache(t *testing.T, c recommend.Cache) {
	t.Helper()
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		_, err := c.Get(ctx, sampleKey(404))
		if !errors.Is(err, recommend.ErrCacheMiss) {
			t.Errorf("Get() error = %v, want ErrCacheMiss", err)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		want := sampleResult(1)
		if err := c.Set(ctx, sampleKey(1), want); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := c.Get(ctx, sampleKey(1))
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		assertSameResult(t, got, want)
	})

	t.Run("hash separates entries", func(t *testing.T) {
		other := recommend.CacheKey{UserID: 1, InputHash: "different"}
		_, err := c.Get(ctx, other)
		if !errors.Is(err, recommend.ErrCacheMiss) {
			t.Errorf("Get(other hash) error = %v, want ErrCacheMiss", err)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		updated := sampleResult(1)
		updated.Predictions = updated.Predictions[:1]
		if err := c.Set(ctx, sampleKey(1), updated); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := c.Get(ctx, sampleKey(1))
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if len(got.Predictions) != 1 {
			t.Errorf("len(Predictions) = %d, want 1", len(got.Predictions))
		}
	})
}
