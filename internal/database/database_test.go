// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cfbench/internal/recommend"
	"github.com/tomtom215/cfbench/internal/recommend/evaluation"
)

// testDBSemaphore serializes DuckDB CGO work across parallel tests.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := Open(Config{Path: MemoryPath, Threads: 1, MaxMemory: "512MB"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return db
}

func sampleRun(id string, started time.Time) *Run {
	return &Run{
		RunID:         id,
		StartedAt:     started,
		FinishedAt:    started.Add(3 * time.Second),
		ConfigJSON:    `{"neighborhood_size":20}`,
		Users:         10,
		UsersFailed:   1,
		UsersSkipped:  2,
		Predictions:   40,
		Unsupported:   4,
		MAE:           evaluation.Defined(0.75),
		RMSE:          evaluation.Defined(0.95),
		Precision:     evaluation.Defined(0.5),
		Recall:        evaluation.Undefined(),
		TruePositive:  5,
		FalsePositive: 5,
		FalseNegative: 0,
	}
}

func TestOpen_AppliesMigrations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if want := len(migrations()); version != want {
		t.Errorf("SchemaVersion() = %d, want %d", version, want)
	}

	history, err := db.MigrationHistory(ctx)
	if err != nil {
		t.Fatalf("MigrationHistory: %v", err)
	}
	if len(history) != len(migrations()) {
		t.Fatalf("len(history) = %d, want %d", len(history), len(migrations()))
	}
	if history[0].Name != "create_runs" {
		t.Errorf("history[0].Name = %q, want create_runs", history[0].Name)
	}
}

func TestOpen_ReopenIsIdempotent(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	path := filepath.Join(t.TempDir(), "nested", "runs.duckdb")
	cfg := Config{Path: path, Threads: 1}

	db, err := Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := db.SaveRun(context.Background(), sampleRun("r1", time.Now())); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err = Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if _, err := db.GetRun(context.Background(), "r1"); err != nil {
		t.Errorf("GetRun after reopen: %v", err)
	}
}

func TestSaveRun_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := sampleRun("run-1", started)
	if err := db.SaveRun(ctx, want); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := db.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}

	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
	}
	if got.Duration() != 3*time.Second {
		t.Errorf("Duration() = %v, want 3s", got.Duration())
	}
	if got.Users != 10 || got.UsersFailed != 1 || got.UsersSkipped != 2 {
		t.Errorf("user counts = %d/%d/%d, want 10/1/2", got.Users, got.UsersFailed, got.UsersSkipped)
	}
	if got.MAE != want.MAE || got.RMSE != want.RMSE || got.Precision != want.Precision {
		t.Errorf("metrics = %v %v %v, want %v %v %v", got.MAE, got.RMSE, got.Precision, want.MAE, want.RMSE, want.Precision)
	}
	if got.Recall.Defined {
		t.Errorf("Recall = %v, want undefined (NULL)", got.Recall)
	}
	if got.TruePositive != 5 || got.FalsePositive != 5 || got.FalseNegative != 0 {
		t.Errorf("confusion = %d/%d/%d, want 5/5/0", got.TruePositive, got.FalsePositive, got.FalseNegative)
	}
}

func TestSaveRun_EmptyID(t *testing.T) {
	db := setupTestDB(t)
	err := db.SaveRun(context.Background(), &Run{})
	if !errors.Is(err, ErrEmptyRunID) {
		t.Errorf("SaveRun() error = %v, want ErrEmptyRunID", err)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.GetRun(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := db.SaveRun(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("SaveRun(%s): %v", id, err)
		}
	}

	tests := []struct {
		name   string
		filter RunFilter
		want   []string
	}{
		{name: "all newest first", filter: RunFilter{}, want: []string{"c", "b", "a"}},
		{name: "limit", filter: RunFilter{Limit: 2}, want: []string{"c", "b"}},
		{name: "since", filter: RunFilter{Since: ptrTime(base.Add(time.Hour))}, want: []string{"c", "b"}},
		{name: "until", filter: RunFilter{Until: ptrTime(base.Add(30 * time.Minute))}, want: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := db.ListRuns(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListRuns: %v", err)
			}
			if len(runs) != len(tt.want) {
				t.Fatalf("len(runs) = %d, want %d", len(runs), len(tt.want))
			}
			for i, id := range tt.want {
				if runs[i].RunID != id {
					t.Errorf("runs[%d] = %s, want %s", i, runs[i].RunID, id)
				}
			}
		})
	}
}

func TestDeleteRun(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SaveRun(ctx, sampleRun("gone", time.Now())); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	records := []PredictionRecord{{UserID: 1, ItemID: 2, Predicted: 3.5, Support: 2}}
	if _, err := db.SavePredictions(ctx, "gone", records); err != nil {
		t.Fatalf("SavePredictions: %v", err)
	}

	if err := db.DeleteRun(ctx, "gone"); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if _, err := db.GetRun(ctx, "gone"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun after delete error = %v, want ErrRunNotFound", err)
	}
	if n, err := db.CountPredictions(ctx, "gone"); err != nil || n != 0 {
		t.Errorf("CountPredictions = (%d, %v), want (0, nil)", n, err)
	}

	if err := db.DeleteRun(ctx, "gone"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("second DeleteRun error = %v, want ErrRunNotFound", err)
	}
}

func TestNewPredictionRecords(t *testing.T) {
	preds := []recommend.Prediction{
		{UserID: 1, ItemID: 10, Score: 4, Support: 3},
		{UserID: 1, ItemID: 11, Score: 0, Support: 0},
	}
	test := []recommend.Rating{{UserID: 1, ItemID: 10, Score: 5}}

	records := NewPredictionRecords(preds, test)
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Actual == nil || *records[0].Actual != 5 {
		t.Errorf("records[0].Actual = %v, want 5", records[0].Actual)
	}
	if records[1].Actual != nil {
		t.Errorf("records[1].Actual = %v, want nil", *records[1].Actual)
	}
	if records[0].Predicted != 4 || records[0].Support != 3 {
		t.Errorf("records[0] = %+v", records[0])
	}
}

func TestSavePredictions_AndFilter(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	actual := 4.0
	records := []PredictionRecord{
		{UserID: 1, ItemID: 10, Predicted: 3.0, Support: 2, Actual: &actual},
		{UserID: 1, ItemID: 11, Predicted: 4.5, Support: 1},
		{UserID: 1, ItemID: 12, Predicted: 0, Support: 0},
		{UserID: 2, ItemID: 10, Predicted: 2.0, Support: 5},
	}
	n, err := db.SavePredictions(ctx, "run", records)
	if err != nil {
		t.Fatalf("SavePredictions: %v", err)
	}
	if n != len(records) {
		t.Errorf("SavePredictions() = %d, want %d", n, len(records))
	}

	tests := []struct {
		name   string
		filter PredictionFilter
		want   [][2]int
	}{
		{name: "all ordered", filter: PredictionFilter{}, want: [][2]int{{1, 11}, {1, 10}, {1, 12}, {2, 10}}},
		{name: "user", filter: PredictionFilter{UserIDs: []int{2}}, want: [][2]int{{2, 10}}},
		{name: "item", filter: PredictionFilter{ItemIDs: []int{10}}, want: [][2]int{{1, 10}, {2, 10}}},
		{name: "supported only", filter: PredictionFilter{UserIDs: []int{1}, SupportedOnly: true}, want: [][2]int{{1, 11}, {1, 10}}},
		{name: "limit", filter: PredictionFilter{Limit: 1}, want: [][2]int{{1, 11}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.GetPredictions(ctx, "run", tt.filter)
			if err != nil {
				t.Fatalf("GetPredictions: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				if got[i].UserID != w[0] || got[i].ItemID != w[1] {
					t.Errorf("got[%d] = (%d,%d), want (%d,%d)", i, got[i].UserID, got[i].ItemID, w[0], w[1])
				}
			}
		})
	}

	got, err := db.GetPredictions(ctx, "run", PredictionFilter{UserIDs: []int{1}, ItemIDs: []int{10}})
	if err != nil {
		t.Fatalf("GetPredictions: %v", err)
	}
	if len(got) != 1 || got[0].Actual == nil || *got[0].Actual != 4 {
		t.Errorf("actual not round-tripped: %+v", got)
	}
}

func TestSavePredictions_ReplacesExisting(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := []PredictionRecord{{UserID: 1, ItemID: 1, Predicted: 1, Support: 1}}
	second := []PredictionRecord{{UserID: 1, ItemID: 1, Predicted: 2, Support: 3}}
	if _, err := db.SavePredictions(ctx, "run", first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := db.SavePredictions(ctx, "run", second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := db.GetPredictions(ctx, "run", PredictionFilter{})
	if err != nil {
		t.Fatalf("GetPredictions: %v", err)
	}
	if len(got) != 1 || got[0].Predicted != 2 || got[0].Support != 3 {
		t.Errorf("got %+v, want single replaced row", got)
	}
}

func TestSavePredictions_EdgeCases(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.SavePredictions(ctx, "", []PredictionRecord{{}}); !errors.Is(err, ErrEmptyRunID) {
		t.Errorf("empty run id error = %v, want ErrEmptyRunID", err)
	}
	if n, err := db.SavePredictions(ctx, "run", nil); err != nil || n != 0 {
		t.Errorf("empty records = (%d, %v), want (0, nil)", n, err)
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
