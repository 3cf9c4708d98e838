// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package recommend

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/goccy/go-json"
)

// Config contains all configuration for the collaborative filtering pipeline.
type Config struct {
	// NeighborhoodSize is the number of rating contributions a prediction
	// may draw from the neighborhood.
	// Default: 11.
	NeighborhoodSize int `json:"neighborhood_size"`

	// Aggregation selects how neighbor ratings are combined.
	// Default: "mean".
	Aggregation Aggregation `json:"aggregation"`

	// TrainFraction is the share of ratings assigned to the training set.
	// Must be in (0, 1). Default: 0.8.
	TrainFraction float64 `json:"train_fraction"`

	// RelevanceThreshold is the rating above which an item counts as liked.
	// Default: 3.
	RelevanceThreshold float64 `json:"relevance_threshold"`

	// TopN is the number of recommendations per user scored for relevance.
	// Default: 10.
	TopN int `json:"top_n"`

	// Seed is the random seed used for splitting.
	// Default: 42.
	Seed int64 `json:"seed"`

	// Workers is the number of users processed concurrently.
	// Default: runtime.NumCPU().
	Workers int `json:"workers"`

	// UserTimeout bounds the pipeline for a single user. Zero disables it.
	// Default: 30s.
	UserTimeout time.Duration `json:"user_timeout"`
}

// DefaultConfig returns a Config with the reference defaults.
func DefaultConfig() *Config {
	return &Config{
		NeighborhoodSize:   11,
		Aggregation:        AggregationMean,
		TrainFraction:      0.8,
		RelevanceThreshold: 3,
		TopN:               10,
		Seed:               42,
		Workers:            runtime.NumCPU(),
		UserTimeout:        30 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.NeighborhoodSize < 1 {
		return fmt.Errorf("neighborhood_size must be positive, got %d", c.NeighborhoodSize)
	}
	if !c.Aggregation.Valid() {
		return fmt.Errorf("aggregation must be %q or %q, got %q", AggregationMean, AggregationWeighted, c.Aggregation)
	}
	if !(c.TrainFraction > 0 && c.TrainFraction < 1) {
		return fmt.Errorf("train_fraction must be in (0, 1), got %f", c.TrainFraction)
	}
	if math.IsNaN(c.RelevanceThreshold) || math.IsInf(c.RelevanceThreshold, 0) {
		return fmt.Errorf("relevance_threshold must be finite, got %f", c.RelevanceThreshold)
	}
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.UserTimeout < 0 {
		return fmt.Errorf("user_timeout must be non-negative, got %v", c.UserTimeout)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// MarshalJSON renders UserTimeout as a duration string.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		UserTimeout string `json:"user_timeout"`
	}{
		Alias:       (*Alias)(c),
		UserTimeout: c.UserTimeout.String(),
	})
}
