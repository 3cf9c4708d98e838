// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package benchmark

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cfbench/internal/catalog"
	"github.com/tomtom215/cfbench/internal/config"
	"github.com/tomtom215/cfbench/internal/database"
	"github.com/tomtom215/cfbench/internal/dataset"
	"github.com/tomtom215/cfbench/internal/metrics"
	"github.com/tomtom215/cfbench/internal/recommend"
	"github.com/tomtom215/cfbench/internal/recommend/algorithms"
	"github.com/tomtom215/cfbench/internal/recommend/storage"
)

// ErrUnknownUser is returned when a user has no ratings in the dataset.
var ErrUnknownUser = errors.New("user has no ratings")

// Runner executes benchmark operations against one configuration.
// A Runner is not safe for concurrent Evaluate calls.
type Runner struct {
	cfg    *config.Config
	logger zerolog.Logger

	engine    *recommend.Engine
	cache     recommend.Cache
	collector *metrics.Collector
	db        *database.DB

	catalogOnce sync.Once
	catalog     *catalog.Catalog
	catalogErr  error

	now func() time.Time
}

// NewRunner builds the engine and opens the configured cache and results
// database. Close releases them.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRunner(cfg *config.Config, logger zerolog.Logger) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	logger = logger.With().Str("component", "benchmark").Logger()

	rc := cfg.RecommendConfig()
	engine, err := recommend.NewEngine(rc, algorithms.NewPearson(), algorithms.NewKNNPredictor(rc.Aggregation), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	r := &Runner{
		cfg:       cfg,
		logger:    logger,
		engine:    engine,
		collector: metrics.New(),
		now:       time.Now,
	}
	engine.SetObserver(r.collector)

	c, err := storage.New(cfg.StorageConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	r.cache = c
	engine.SetCache(c)

	if cfg.Database.Enabled {
		db, err := database.Open(cfg.DatabaseStoreConfig(), logger)
		if err != nil {
			r.closeCache()
			return nil, fmt.Errorf("failed to open results database: %w", err)
		}
		r.db = db
	}

	return r, nil
}

// Engine returns the recommendation engine.
func (r *Runner) Engine() *recommend.Engine {
	return r.engine
}

// Metrics returns the run's metrics collector.
func (r *Runner) Metrics() *metrics.Collector {
	return r.collector
}

// Close releases the cache and the results database.
func (r *Runner) Close() error {
	var errs []error
	if err := r.closeCache(); err != nil {
		errs = append(errs, fmt.Errorf("close cache: %w", err))
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
		r.db = nil
	}
	return errors.Join(errs...)
}

func (r *Runner) closeCache() error {
	if r.cache == nil {
		return nil
	}
	err := r.cache.Close()
	r.cache = nil
	r.engine.SetCache(nil)
	return err
}

// loadRatings reads the configured ratings file.
func (r *Runner) loadRatings(ctx context.Context) ([]recommend.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := r.now()
	ratings, err := dataset.LoadRatings(r.cfg.Data.Ratings, r.cfg.DatasetOptions())
	if err != nil {
		return nil, err
	}
	r.logger.Debug().
		Str("path", r.cfg.Data.Ratings).
		Int("ratings", len(ratings)).
		Dur("duration", r.now().Sub(start)).
		Msg("loaded ratings")
	return ratings, nil
}

// loadCatalog reads the item catalog once. Without a configured items file
// the catalog is empty.
func (r *Runner) loadCatalog() (*catalog.Catalog, error) {
	r.catalogOnce.Do(func() {
		if r.cfg.Data.Items == "" {
			r.catalog = catalog.New(nil)
			return
		}
		items, err := dataset.LoadItems(r.cfg.Data.Items, r.cfg.DatasetOptions())
		if err != nil {
			r.catalogErr = err
			return
		}
		r.catalog = catalog.New(items)
		r.logger.Debug().Str("path", r.cfg.Data.Items).Int("items", len(items)).Msg("loaded item catalog")
	})
	return r.catalog, r.catalogErr
}

// fullTable loads the whole ratings file into a table.
func (r *Runner) fullTable(ctx context.Context) (*recommend.RatingTable, error) {
	ratings, err := r.loadRatings(ctx)
	if err != nil {
		return nil, err
	}
	table, err := recommend.NewRatingTable(ratings)
	if err != nil {
		return nil, fmt.Errorf("failed to build rating table: %w", err)
	}
	return table, nil
}

// Split writes <ratings>_train and <ratings>_test from the raw ratings lines.
func (r *Runner) Split(ctx context.Context) (dataset.SplitResult, error) {
	if err := ctx.Err(); err != nil {
		return dataset.SplitResult{}, err
	}
	res, err := dataset.SplitFile(r.cfg.Data.Ratings, r.cfg.Split.TrainFraction, r.cfg.Split.Seed)
	if err != nil {
		return dataset.SplitResult{}, err
	}
	r.logger.Info().
		Str("train", res.TrainPath).
		Str("test", res.TestPath).
		Int("train_lines", res.TrainLines).
		Int("test_lines", res.TestLines).
		Msg("split written")
	return res, nil
}

// Recommend predicts every item userID has not rated, keeps those matching
// filterExpr (empty keeps all) and returns the best limit with metadata.
func (r *Runner) Recommend(ctx context.Context, userID, limit int, filterExpr string) ([]catalog.Entry, error) {
	table, err := r.fullTable(ctx)
	if err != nil {
		return nil, err
	}
	if !table.HasUser(userID) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownUser, userID)
	}

	cat, err := r.loadCatalog()
	if err != nil {
		return nil, err
	}

	var filter *catalog.Filter
	if filterExpr != "" {
		filter, err = catalog.NewFilter(filterExpr, cat)
		if err != nil {
			return nil, err
		}
	}

	// Filter before truncating so limit counts matching items.
	preds, err := r.engine.RecommendUnrated(ctx, table, userID, 0)
	if err != nil {
		return nil, err
	}
	preds, err = filter.Apply(preds)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(preds) > limit {
		preds = preds[:limit]
	}

	return cat.Annotate(preds), nil
}

// ShowUserRatings returns the first limit items userID rated, ordered by
// item id, with metadata. A non-positive limit returns all.
func (r *Runner) ShowUserRatings(ctx context.Context, userID, limit int) ([]catalog.RatedEntry, error) {
	table, err := r.fullTable(ctx)
	if err != nil {
		return nil, err
	}
	if !table.HasUser(userID) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownUser, userID)
	}

	cat, err := r.loadCatalog()
	if err != nil {
		return nil, err
	}
	return cat.UserRatings(table, userID, limit), nil
}
