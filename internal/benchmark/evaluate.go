// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package benchmark

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cfbench/internal/database"
	"github.com/tomtom215/cfbench/internal/dataset"
	"github.com/tomtom215/cfbench/internal/logging"
	"github.com/tomtom215/cfbench/internal/recommend"
	"github.com/tomtom215/cfbench/internal/recommend/evaluation"
)

// ErrDatabaseDisabled is returned by operations that need the results database.
var ErrDatabaseDisabled = errors.New("results database is disabled")

// Evaluate runs one complete benchmark and returns its report.
//
// A run in which no prediction matched a held-out rating still succeeds:
// the report carries undefined error metrics and EvaluationWarning.
func (r *Runner) Evaluate(ctx context.Context) (*Report, error) {
	runID := logging.GenerateRunID()
	ctx = logging.ContextWithLogger(ctx, r.logger)
	ctx = logging.ContextWithRunID(ctx, runID)
	log := logging.Ctx(ctx)

	started := r.now()
	report := &Report{
		RunID:     runID,
		StartedAt: started,
		Config:    r.engine.Config(),
	}

	ratings, err := r.loadRatings(ctx)
	if err != nil {
		return nil, err
	}

	train, test, err := evaluation.SplitSeeded(ratings, r.cfg.Split.TrainFraction, r.cfg.Split.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to split ratings: %w", err)
	}
	if r.cfg.Data.WriteSplit {
		if _, err := dataset.WriteSplit(r.cfg.Data.Ratings, train, test, r.cfg.DatasetOptions()); err != nil {
			return nil, err
		}
	}

	table, err := recommend.NewRatingTable(train)
	if err != nil {
		return nil, fmt.Errorf("failed to build rating table: %w", err)
	}

	targets, skipped := evaluationTargets(table, test)
	report.Dataset = DatasetSummary{
		Ratings: len(ratings),
		Train:   len(train),
		Test:    len(test),
		Users:   len(table.Users()),
		Items:   len(table.Items()),
	}
	report.UsersSkipped = skipped

	log.Info().
		Int("train", len(train)).
		Int("test", len(test)).
		Int("target_users", len(targets)).
		Int("skipped_users", skipped).
		Msg("dataset split")

	results, err := r.engine.RunBatch(ctx, table, targets)
	if err != nil {
		return nil, err
	}

	preds := recommend.FlattenPredictions(results)
	report.Users = len(results)
	for i := range results {
		if results[i].Err != nil {
			report.UsersFailed++
		}
	}
	report.Predictions = len(preds)
	for _, p := range preds {
		if !p.Supported() {
			report.Unsupported++
		}
	}

	res, evalErr := evaluation.Evaluate(preds, test, r.cfg.EvaluationOptions())
	report.Evaluation = res
	if evalErr != nil {
		if !errors.Is(evalErr, evaluation.ErrUndefinedMetric) {
			return nil, evalErr
		}
		report.EvaluationWarning = evalErr.Error()
		log.Warn().Err(evalErr).Msg("evaluation metrics undefined")
	}

	report.Engine = r.engine.Stats()
	report.FinishedAt = r.now()
	report.Duration = report.FinishedAt.Sub(started).String()

	log.Info().
		Stringer("mae", res.Error.MAE).
		Stringer("rmse", res.Error.RMSE).
		Stringer("precision", res.Relevance.Precision).
		Stringer("recall", res.Relevance.Recall).
		Int("pairs", res.Error.Pairs).
		Str("duration", report.Duration).
		Msg("evaluation complete")

	if err := r.persist(ctx, report, preds, test); err != nil {
		return nil, err
	}

	if err := r.publishMetrics(report); err != nil {
		return nil, err
	}

	return report, nil
}

// evaluationTargets maps every test user present in the training table to
// the items to predict. Users absent from training are counted as skipped.
func evaluationTargets(table *recommend.RatingTable, test []recommend.Rating) (map[int][]int, int) {
	targets := recommend.GroupByUser(test)
	skipped := 0
	for userID := range targets {
		if !table.HasUser(userID) {
			delete(targets, userID)
			skipped++
		}
	}
	return targets, skipped
}

// persist stores the run summary and, when configured, its predictions.
func (r *Runner) persist(ctx context.Context, report *Report, preds []recommend.Prediction, test []recommend.Rating) error {
	if r.db == nil {
		return nil
	}

	cfgJSON, err := json.Marshal(report.Config)
	if err != nil {
		return fmt.Errorf("failed to encode run config: %w", err)
	}

	run := &database.Run{
		RunID:         report.RunID,
		StartedAt:     report.StartedAt,
		FinishedAt:    report.FinishedAt,
		ConfigJSON:    string(cfgJSON),
		Users:         report.Users,
		UsersFailed:   report.UsersFailed,
		UsersSkipped:  report.UsersSkipped,
		Predictions:   report.Predictions,
		Unsupported:   report.Unsupported,
		MAE:           report.Evaluation.Error.MAE,
		RMSE:          report.Evaluation.Error.RMSE,
		Precision:     report.Evaluation.Relevance.Precision,
		Recall:        report.Evaluation.Relevance.Recall,
		TruePositive:  report.Evaluation.Relevance.TruePositive,
		FalsePositive: report.Evaluation.Relevance.FalsePositive,
		FalseNegative: report.Evaluation.Relevance.FalseNegative,
	}
	if err := r.db.SaveRun(ctx, run); err != nil {
		return err
	}
	report.Persisted = true

	if !r.cfg.Database.SavePredictions {
		return nil
	}
	n, err := r.db.SavePredictions(ctx, report.RunID, database.NewPredictionRecords(preds, test))
	if err != nil {
		return err
	}
	report.PredictionsPersisted = n
	return nil
}

// publishMetrics records the run and writes the textfile when enabled.
func (r *Runner) publishMetrics(report *Report) error {
	r.collector.RecordEvaluation(report.Evaluation)
	r.collector.RecordRun(report.FinishedAt.Sub(report.StartedAt), report.FinishedAt, report.UsersSkipped)

	if !r.cfg.Metrics.Enabled {
		return nil
	}
	return r.collector.WriteTextfile(r.cfg.Metrics.TextfilePath)
}

// ListRuns returns the most recent persisted runs.
func (r *Runner) ListRuns(ctx context.Context, since time.Time, limit int) ([]*database.Run, error) {
	if r.db == nil {
		return nil, ErrDatabaseDisabled
	}
	filter := database.RunFilter{Limit: limit}
	if !since.IsZero() {
		filter.Since = &since
	}
	return r.db.ListRuns(ctx, filter)
}

// RunPredictions returns the persisted predictions of one run for userID.
// A zero userID returns every user's predictions.
func (r *Runner) RunPredictions(ctx context.Context, runID string, userID int) ([]database.PredictionRecord, error) {
	if r.db == nil {
		return nil, ErrDatabaseDisabled
	}
	if _, err := r.db.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	filter := database.PredictionFilter{}
	if userID != 0 {
		filter.UserIDs = []int{userID}
	}
	return r.db.GetPredictions(ctx, runID, filter)
}
