// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package evaluation

import (
	"fmt"

	"github.com/tomtom215/cfbench/internal/recommend"
)

// Options controls Evaluate.
type Options struct {
	// RelevanceThreshold is the rating above which an item is relevant.
	RelevanceThreshold float64

	// TopN is the number of recommendations per user scored for relevance.
	// Non-positive scores every prediction.
	TopN int

	// SupportedOnly drops predictions with zero support before scoring.
	SupportedOnly bool
}

// DefaultOptions returns threshold 3 over the top 10 with all predictions.
func DefaultOptions() Options {
	return Options{RelevanceThreshold: 3, TopN: 10}
}

// Result is the outcome of an evaluation run.
type Result struct {
	Error     ErrorMetrics     `json:"error"`
	Relevance RelevanceMetrics `json:"relevance"`

	// Scored is the number of predictions considered after filtering.
	Scored int `json:"scored"`

	// Dropped is the number of unsupported predictions removed by SupportedOnly.
	Dropped int `json:"dropped"`
}

// Evaluate computes error and relevance metrics of predictions against the
// held-out test ratings.
//
// When no prediction matches a test rating the returned Result is still
// populated, with undefined error metrics, and the error wraps
// ErrNoMatchedPairs.
func Evaluate(predictions []recommend.Prediction, test []recommend.Rating, opts Options) (Result, error) {
	scored := predictions
	dropped := 0
	if opts.SupportedOnly {
		scored = make([]recommend.Prediction, 0, len(predictions))
		for _, p := range predictions {
			if p.Supported() {
				scored = append(scored, p)
			}
		}
		dropped = len(predictions) - len(scored)
	}

	result := Result{
		Relevance: ComputeRelevanceMetrics(TopN(scored, opts.TopN), test, opts.RelevanceThreshold),
		Scored:    len(scored),
		Dropped:   dropped,
	}

	errMetrics, err := ComputeErrorMetrics(scored, test)
	result.Error = errMetrics
	if err != nil {
		return result, fmt.Errorf("error metrics: %w", err)
	}
	return result, nil
}
