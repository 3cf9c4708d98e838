// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package evaluation

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrInvalidFraction is returned when the training fraction is outside (0, 1).
var ErrInvalidFraction = errors.New("train fraction must be in (0, 1)")

// Split shuffles a copy of records with rng and partitions it at
// floor(len(records) * trainFraction). The input slice is not modified.
func Split[T any](records []T, trainFraction float64, rng *rand.Rand) (train, test []T, err error) {
	if !(trainFraction > 0 && trainFraction < 1) {
		return nil, nil, fmt.Errorf("%w: got %v", ErrInvalidFraction, trainFraction)
	}
	if rng == nil {
		return nil, nil, errors.New("random source is required")
	}

	shuffled := make([]T, len(records))
	copy(shuffled, records)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := int(math.Floor(float64(len(shuffled)) * trainFraction))
	return shuffled[:cut:cut], shuffled[cut:], nil
}

// SplitSeeded is Split with a source seeded from seed.
func SplitSeeded[T any](records []T, trainFraction float64, seed int64) (train, test []T, err error) {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // math/rand is fine for reproducible splits
	return Split(records, trainFraction, rng)
}
