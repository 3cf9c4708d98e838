// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package benchmark

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cfbench/internal/recommend"
	"github.com/tomtom215/cfbench/internal/recommend/evaluation"
)

// DatasetSummary describes the data a run was evaluated on.
type DatasetSummary struct {
	Ratings int `json:"ratings"`
	Train   int `json:"train"`
	Test    int `json:"test"`
	Users   int `json:"train_users"`
	Items   int `json:"train_items"`
}

// Report is the outcome of one evaluation run.
type Report struct {
	RunID      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Duration   string            `json:"duration"`
	Config     *recommend.Config `json:"config"`

	Dataset DatasetSummary `json:"dataset"`

	Users        int `json:"users"`
	UsersFailed  int `json:"users_failed"`
	UsersSkipped int `json:"users_skipped"`
	Predictions  int `json:"predictions"`
	Unsupported  int `json:"unsupported"`

	Evaluation evaluation.Result `json:"evaluation"`

	// EvaluationWarning explains undefined metrics, e.g. no matched pairs.
	EvaluationWarning string `json:"evaluation_warning,omitempty"`

	Engine recommend.Stats `json:"engine"`

	Persisted            bool `json:"persisted"`
	PredictionsPersisted int  `json:"predictions_persisted,omitempty"`
}

// WriteJSON encodes v to w, indented when pretty is set.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// SaveJSON writes v to path, creating parent directories.
func SaveJSON(path string, v interface{}, pretty bool) (err error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		// 0750 permissions per gosec G301
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}

	//nolint:gosec // G304: report path comes from configuration
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report %s: %w", path, cerr)
		}
	}()

	return WriteJSON(f, v, pretty)
}
