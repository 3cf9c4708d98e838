// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/cfbench/internal/database/query"
	"github.com/tomtom215/cfbench/internal/recommend/evaluation"
)

// Run is the summary of one benchmark run.
type Run struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// ConfigJSON is the effective configuration, JSON encoded.
	ConfigJSON string `json:"config"`

	Users        int `json:"users"`
	UsersFailed  int `json:"users_failed"`
	UsersSkipped int `json:"users_skipped"`
	Predictions  int `json:"predictions"`
	Unsupported  int `json:"unsupported"`

	MAE       evaluation.Metric `json:"mae"`
	RMSE      evaluation.Metric `json:"rmse"`
	Precision evaluation.Metric `json:"precision"`
	Recall    evaluation.Metric `json:"recall"`

	TruePositive  int `json:"tp"`
	FalsePositive int `json:"fp"`
	FalseNegative int `json:"fn"`
}

// Duration returns the wall time of the run.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunFilter narrows ListRuns.
type RunFilter struct {
	Since *time.Time
	Until *time.Time

	// Limit caps the result count. Zero means no limit.
	Limit int
}

const runColumns = `run_id, started_at, finished_at, config_json, users, users_failed, users_skipped,
	predictions, unsupported, mae, rmse, precision_at_n, recall_at_n, tp, fp, fn`

// SaveRun inserts or replaces a run summary.
func (db *DB) SaveRun(ctx context.Context, run *Run) error {
	if run.RunID == "" {
		return ErrEmptyRunID
	}

	_, err := db.conn.ExecContext(ctx, `INSERT OR REPLACE INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.ConfigJSON,
		run.Users, run.UsersFailed, run.UsersSkipped, run.Predictions, run.Unsupported,
		run.MAE.Ptr(), run.RMSE.Ptr(), run.Precision.Ptr(), run.Recall.Ptr(),
		run.TruePositive, run.FalsePositive, run.FalseNegative,
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.RunID, err)
	}
	return nil
}

// GetRun returns the run with id or ErrRunNotFound.
func (db *DB) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	return run, nil
}

// ListRuns returns runs newest first.
func (db *DB) ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error) {
	where, args := query.NewWhereBuilder().
		TimeRange("started_at", utcPtr(filter.Since), utcPtr(filter.Until)).
		Build()

	q, args := query.Limit(`SELECT `+runColumns+` FROM runs `+where+` ORDER BY started_at DESC, run_id`, args, filter.Limit)

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and its predictions.
func (db *DB) DeleteRun(ctx context.Context, runID string) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				db.logger.Error().Err(rbErr).AnErr("original_error", err).Msg("Transaction rollback failed")
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM predictions WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to delete predictions: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s rowScanner) (*Run, error) {
	var (
		run                          Run
		mae, rmse, precision, recall sql.NullFloat64
	)
	err := s.Scan(
		&run.RunID, &run.StartedAt, &run.FinishedAt, &run.ConfigJSON,
		&run.Users, &run.UsersFailed, &run.UsersSkipped, &run.Predictions, &run.Unsupported,
		&mae, &rmse, &precision, &recall,
		&run.TruePositive, &run.FalsePositive, &run.FalseNegative,
	)
	if err != nil {
		return nil, err
	}

	run.MAE = metricFromNull(mae)
	run.RMSE = metricFromNull(rmse)
	run.Precision = metricFromNull(precision)
	run.Recall = metricFromNull(recall)
	return &run, nil
}

func metricFromNull(v sql.NullFloat64) evaluation.Metric {
	if !v.Valid {
		return evaluation.Undefined()
	}
	return evaluation.Defined(v.Float64)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
