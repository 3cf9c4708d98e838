// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package storage

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cfbench/internal/recommend"
)

// record is the persisted form of a recommend.UserResult. Run-local fields
// (CacheHit, Err) are never stored.
type record struct {
	UserID       int                    `json:"user_id"`
	Neighborhood recommend.Neighborhood `json:"neighborhood"`
	Predictions  []recommend.Prediction `json:"predictions"`
}

func newRecord(result recommend.UserResult) record {
	return record{
		UserID:       result.UserID,
		Neighborhood: result.Neighborhood,
		Predictions:  result.Predictions,
	}
}

func (r record) result() recommend.UserResult {
	return recommend.UserResult{
		UserID:       r.UserID,
		Neighborhood: r.Neighborhood,
		Predictions:  r.Predictions,
	}
}

// cloneResult copies the slices of result so cached entries do not alias
// caller memory.
func cloneResult(result recommend.UserResult) recommend.UserResult {
	out := newRecord(result).result()
	if result.Neighborhood.Neighbors != nil {
		out.Neighborhood.Neighbors = append([]recommend.SimilarityScore(nil), result.Neighborhood.Neighbors...)
	}
	if result.Predictions != nil {
		out.Predictions = append([]recommend.Prediction(nil), result.Predictions...)
	}
	return out
}

func encodeJSON(result recommend.UserResult) ([]byte, error) {
	data, err := json.Marshal(newRecord(result))
	if err != nil {
		return nil, fmt.Errorf("marshal cached result: %w", err)
	}
	return data, nil
}

func decodeJSON(data []byte) (recommend.UserResult, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return recommend.UserResult{}, fmt.Errorf("unmarshal cached result: %w", err)
	}
	return r.result(), nil
}
