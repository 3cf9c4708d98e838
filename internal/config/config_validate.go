// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package config

import (
	"fmt"
	"math"
	"net"

	"github.com/tomtom215/cfbench/internal/validation"
)

// Validate checks struct tags first, then cross-field rules the tags
// cannot express.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateEvaluation(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	return c.RecommendConfig().Validate()
}

// validateEvaluation rejects thresholds that would make every comparison false.
func (c *Config) validateEvaluation() error {
	t := c.Evaluation.RelevanceThreshold
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("evaluation.relevance_threshold must be finite, got %v", t)
	}
	return nil
}

// validateCache checks the redis address format when redis is selected.
func (c *Config) validateCache() error {
	if c.Cache.Backend != "redis" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Cache.Addr); err != nil {
		return fmt.Errorf("cache.addr must be host:port, got %q: %w", c.Cache.Addr, err)
	}
	return nil
}
