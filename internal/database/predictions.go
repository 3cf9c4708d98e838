// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/cfbench/internal/database/query"
	"github.com/tomtom215/cfbench/internal/recommend"
)

// PredictionRecord is one persisted prediction, joined with the held-out
// rating when one exists.
type PredictionRecord struct {
	UserID    int      `json:"user_id"`
	ItemID    int      `json:"item_id"`
	Predicted float64  `json:"predicted"`
	Support   int      `json:"support"`
	Actual    *float64 `json:"actual"`
}

// NewPredictionRecords pairs predictions with test ratings on (user, item).
func NewPredictionRecords(preds []recommend.Prediction, test []recommend.Rating) []PredictionRecord {
	type key struct{ user, item int }
	actual := make(map[key]float64, len(test))
	for _, r := range test {
		actual[key{r.UserID, r.ItemID}] = r.Score
	}

	records := make([]PredictionRecord, 0, len(preds))
	for _, p := range preds {
		rec := PredictionRecord{
			UserID:    p.UserID,
			ItemID:    p.ItemID,
			Predicted: p.Score,
			Support:   p.Support,
		}
		if v, ok := actual[key{p.UserID, p.ItemID}]; ok {
			v := v
			rec.Actual = &v
		}
		records = append(records, rec)
	}
	return records
}

// PredictionFilter narrows GetPredictions.
type PredictionFilter struct {
	UserIDs       []int
	ItemIDs       []int
	SupportedOnly bool

	// Limit caps the result count. Zero means no limit.
	Limit int
}

// SavePredictions stores records under runID in a single transaction and
// returns the number written.
func (db *DB) SavePredictions(ctx context.Context, runID string, records []PredictionRecord) (n int, err error) {
	if runID == "" {
		return 0, ErrEmptyRunID
	}
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				db.logger.Error().Err(rbErr).AnErr("original_error", err).Msg("Transaction rollback failed")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO predictions
		(run_id, user_id, item_id, predicted, support, actual) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer closeQuietly(stmt)

	for i := range records {
		rec := &records[i]
		if err = ctx.Err(); err != nil {
			return 0, err
		}
		if _, err = stmt.ExecContext(ctx, runID, rec.UserID, rec.ItemID, rec.Predicted, rec.Support, rec.Actual); err != nil {
			return 0, fmt.Errorf("failed to insert prediction user=%d item=%d: %w", rec.UserID, rec.ItemID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	db.logger.Debug().Str("run_id", runID).Int("count", len(records)).Msg("saved predictions")
	return len(records), nil
}

// GetPredictions returns the predictions of runID ordered by user, then
// predicted score descending, then item.
func (db *DB) GetPredictions(ctx context.Context, runID string, filter PredictionFilter) ([]PredictionRecord, error) {
	where, args := query.NewWhereBuilder().
		Clause("run_id = ?", runID).
		IntIn("user_id", filter.UserIDs).
		IntIn("item_id", filter.ItemIDs).
		ClauseIf(filter.SupportedOnly, "support > 0").
		Build()

	q, args := query.Limit(`SELECT user_id, item_id, predicted, support, actual FROM predictions `+where+
		` ORDER BY user_id, predicted DESC, item_id`, args, filter.Limit)

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var records []PredictionRecord
	for rows.Next() {
		var (
			rec    PredictionRecord
			actual sql.NullFloat64
		)
		if err := rows.Scan(&rec.UserID, &rec.ItemID, &rec.Predicted, &rec.Support, &actual); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		if actual.Valid {
			v := actual.Float64
			rec.Actual = &v
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountPredictions returns the number of stored predictions for runID.
func (db *DB) CountPredictions(ctx context.Context, runID string) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count predictions: %w", err)
	}
	return n, nil
}
