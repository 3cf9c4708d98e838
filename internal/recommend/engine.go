// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Cache lookup outcomes reported to an Observer.
const (
	CacheOutcomeHit   = "hit"
	CacheOutcomeMiss  = "miss"
	CacheOutcomeError = "error"
)

// Observer receives pipeline events, typically to feed metrics collectors.
// Implementations must be safe for concurrent use.
type Observer interface {
	// UserCompleted is called once per user pipeline with its duration and error.
	UserCompleted(duration time.Duration, err error)

	// PredictionsProduced is called with the supported/unsupported split of a user's predictions.
	PredictionsProduced(supported, unsupported int)

	// CacheLookup is called with one of the CacheOutcome constants.
	CacheLookup(outcome string)
}

// Engine runs the per-user pipeline: similarities, neighborhood, predictions.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	similarity SimilarityEngine
	predictor  RatingPredictor

	cache    Cache
	observer Observer
	hookMu   sync.RWMutex

	usersProcessed atomic.Int64
	usersFailed    atomic.Int64
	predictions    atomic.Int64
	unsupported    atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	cacheErrors    atomic.Int64
}

// NewEngine creates a pipeline engine from a similarity engine and a predictor.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, similarity SimilarityEngine, predictor RatingPredictor, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if similarity == nil {
		return nil, errors.New("similarity engine is required")
	}
	if predictor == nil {
		return nil, errors.New("rating predictor is required")
	}

	return &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		similarity: similarity,
		predictor:  predictor,
	}, nil
}

// SetCache installs a result cache. A nil cache disables caching.
func (e *Engine) SetCache(c Cache) {
	e.hookMu.Lock()
	defer e.hookMu.Unlock()
	e.cache = c
}

// SetObserver installs a pipeline observer. A nil observer disables events.
func (e *Engine) SetObserver(o Observer) {
	e.hookMu.Lock()
	defer e.hookMu.Unlock()
	e.observer = o
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

func (e *Engine) hooks() (Cache, Observer) {
	e.hookMu.RLock()
	defer e.hookMu.RUnlock()
	return e.cache, e.observer
}

// Recommend runs the pipeline for a single user and predicts the given items.
// Duplicate items are predicted once.
func (e *Engine) Recommend(ctx context.Context, table *RatingTable, userID int, items []int) (UserResult, error) {
	if table == nil || table.Len() == 0 {
		return UserResult{}, ErrEmptyTable
	}

	cache, observer := e.hooks()
	logger := e.logger.With().Int("user_id", userID).Logger()

	var key CacheKey
	if cache != nil {
		key = CacheKey{
			UserID:    userID,
			InputHash: InputHash(table, items, e.config.NeighborhoodSize, e.config.Aggregation),
		}
		if cached, ok := e.lookupCache(ctx, cache, observer, key, logger); ok {
			return cached, nil
		}
	}

	sims, err := e.similarity.ComputeSimilarities(ctx, userID, table)
	if err != nil {
		return UserResult{}, fmt.Errorf("compute similarities for user %d: %w", userID, err)
	}

	hood := SelectNeighborhood(sims, e.config.NeighborhoodSize)

	preds, err := e.predictor.Predict(ctx, userID, UniqueItems(items), hood, table)
	if err != nil {
		return UserResult{}, fmt.Errorf("predict for user %d: %w", userID, err)
	}

	unsupported := 0
	for _, p := range preds {
		if !p.Supported() {
			unsupported++
		}
	}
	e.predictions.Add(int64(len(preds)))
	e.unsupported.Add(int64(unsupported))
	if observer != nil {
		observer.PredictionsProduced(len(preds)-unsupported, unsupported)
	}

	result := UserResult{
		UserID:       userID,
		Neighborhood: hood,
		Predictions:  preds,
	}

	if cache != nil {
		if err := cache.Set(ctx, key, result); err != nil {
			e.cacheErrors.Add(1)
			logger.Warn().Err(err).Msg("failed to store result in cache")
		}
	}

	logger.Debug().
		Int("neighbors", hood.Len()).
		Int("predictions", len(preds)).
		Int("unsupported", unsupported).
		Msg("user pipeline complete")

	return result, nil
}

// lookupCache returns a cached result. Every error counts as a miss.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) lookupCache(ctx context.Context, cache Cache, observer Observer, key CacheKey, logger zerolog.Logger) (UserResult, bool) {
	cached, err := cache.Get(ctx, key)
	switch {
	case err == nil:
		e.cacheHits.Add(1)
		if observer != nil {
			observer.CacheLookup(CacheOutcomeHit)
		}
		cached.CacheHit = true
		logger.Debug().Msg("cache hit")
		return cached, true
	case errors.Is(err, ErrCacheMiss):
		e.cacheMisses.Add(1)
		if observer != nil {
			observer.CacheLookup(CacheOutcomeMiss)
		}
	default:
		e.cacheErrors.Add(1)
		if observer != nil {
			observer.CacheLookup(CacheOutcomeError)
		}
		logger.Warn().Err(err).Msg("cache lookup failed, computing")
	}
	return UserResult{}, false
}

// RunBatch runs the pipeline for every user in targets, predicting the
// mapped items, on a bounded worker pool. Results are sorted by user id.
//
// A user that fails or exceeds UserTimeout is reported through
// UserResult.Err and does not abort the batch. Cancelling ctx aborts the
// batch and returns ctx.Err().
func (e *Engine) RunBatch(ctx context.Context, table *RatingTable, targets map[int][]int) ([]UserResult, error) {
	if table == nil || table.Len() == 0 {
		return nil, ErrEmptyTable
	}

	users := sortedKeys(targets)
	results := make([]UserResult, len(users))

	start := time.Now()
	e.logger.Info().
		Int("users", len(users)).
		Int("workers", e.config.Workers).
		Dur("user_timeout", e.config.UserTimeout).
		Msg("starting batch")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)

	for i, userID := range users {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.runUser(gctx, table, userID, targets[userID])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch aborted: %w", err)
	}

	failed := 0
	for i := range results {
		if results[i].Err != nil {
			failed++
		}
	}

	e.logger.Info().
		Int("users", len(users)).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("batch complete")

	return results, nil
}

// runUser applies the per-user budget and records the outcome.
func (e *Engine) runUser(ctx context.Context, table *RatingTable, userID int, items []int) UserResult {
	userCtx := ctx
	if e.config.UserTimeout > 0 {
		var cancel context.CancelFunc
		userCtx, cancel = context.WithTimeout(ctx, e.config.UserTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := e.Recommend(userCtx, table, userID, items)
	duration := time.Since(start)

	_, observer := e.hooks()
	if observer != nil {
		observer.UserCompleted(duration, err)
	}

	if err != nil {
		e.usersFailed.Add(1)
		e.logger.Warn().
			Err(err).
			Int("user_id", userID).
			Dur("duration", duration).
			Msg("user pipeline failed")
		return UserResult{UserID: userID, Err: err}
	}

	e.usersProcessed.Add(1)
	return result
}

// RecommendUnrated predicts every item the user has not rated and returns
// the best limit predictions. A non-positive limit returns all of them.
func (e *Engine) RecommendUnrated(ctx context.Context, table *RatingTable, userID, limit int) ([]Prediction, error) {
	if table == nil || table.Len() == 0 {
		return nil, ErrEmptyTable
	}

	rated := table.UserRatings(userID)
	candidates := make([]int, 0, len(table.Items()))
	for _, item := range table.Items() {
		if _, ok := rated[item]; !ok {
			candidates = append(candidates, item)
		}
	}

	result, err := e.Recommend(ctx, table, userID, candidates)
	if err != nil {
		return nil, err
	}

	preds := result.Predictions
	if limit > 0 && len(preds) > limit {
		preds = preds[:limit]
	}
	return preds, nil
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		UsersProcessed: e.usersProcessed.Load(),
		UsersFailed:    e.usersFailed.Load(),
		Predictions:    e.predictions.Load(),
		Unsupported:    e.unsupported.Load(),
		CacheHits:      e.cacheHits.Load(),
		CacheMisses:    e.cacheMisses.Load(),
		CacheErrors:    e.cacheErrors.Load(),
	}
}

// GroupByUser groups ratings into per-user item lists, the targets shape
// RunBatch consumes. Items keep their input order.
func GroupByUser(ratings []Rating) map[int][]int {
	out := make(map[int][]int)
	for _, r := range ratings {
		out[r.UserID] = append(out[r.UserID], r.ItemID)
	}
	return out
}

// FlattenPredictions concatenates the predictions of successful results,
// ordered by user id, then score descending.
func FlattenPredictions(results []UserResult) []Prediction {
	n := 0
	for i := range results {
		n += len(results[i].Predictions)
	}
	out := make([]Prediction, 0, n)
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		out = append(out, results[i].Predictions...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UserID < out[j].UserID
	})
	return out
}
