// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package metrics

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/cfbench/internal/recommend"
	"github.com/tomtom215/cfbench/internal/recommend/evaluation"
)

const namespace = "cfbench"

// Support classes used as the "support" label of PredictionsTotal.
const (
	SupportSupported   = "supported"
	SupportUnsupported = "unsupported"
)

// Collector owns the collectors of one benchmark process on a private
// registry. It implements recommend.Observer.
type Collector struct {
	registry *prometheus.Registry

	// Pipeline Metrics
	UsersProcessed   prometheus.Counter
	UsersFailed      prometheus.Counter
	UserDuration     prometheus.Histogram
	PredictionsTotal *prometheus.CounterVec

	// Cache Metrics
	CacheLookups *prometheus.CounterVec

	// Evaluation Metrics
	EvaluationValue   *prometheus.GaugeVec
	EvaluationDefined *prometheus.GaugeVec
	EvaluationCounts  *prometheus.GaugeVec

	// Run Metrics
	RunDuration      prometheus.Gauge
	RunLastTimestamp prometheus.Gauge
	UsersSkipped     prometheus.Gauge
}

var _ recommend.Observer = (*Collector)(nil)

// New creates a Collector with all metrics registered on a fresh registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		UsersProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_processed_total",
			Help:      "Total number of user pipelines that completed",
		}),
		UsersFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_failed_total",
			Help:      "Total number of user pipelines that failed or timed out",
		}),
		UserDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "user_pipeline_duration_seconds",
			Help:      "Duration of one user's similarity, neighborhood and prediction pipeline",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		PredictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Total number of predictions produced",
		}, []string{"support"}), // "supported", "unsupported"

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Total number of result cache lookups",
		}, []string{"result"}), // "hit", "miss", "error"

		EvaluationValue: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "evaluation_metric",
			Help:      "Evaluation metric value of the last run (NaN when undefined)",
		}, []string{"metric"}), // "mae", "rmse", "precision", "recall"
		EvaluationDefined: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "evaluation_metric_defined",
			Help:      "Whether the evaluation metric of the last run is defined (1) or not (0)",
		}, []string{"metric"}),
		EvaluationCounts: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "evaluation_count",
			Help:      "Evaluation counts of the last run",
		}, []string{"kind"}), // "pairs", "tp", "fp", "fn"

		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last benchmark run",
		}),
		RunLastTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_last_timestamp_seconds",
			Help:      "Unix timestamp at which the last benchmark run finished",
		}),
		UsersSkipped: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "users_skipped",
			Help:      "Test-set users without training ratings in the last run",
		}),
	}
}

// Registry returns the registry the collectors are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// UserCompleted records one user pipeline.
func (c *Collector) UserCompleted(duration time.Duration, err error) {
	c.UserDuration.Observe(duration.Seconds())
	if err != nil {
		c.UsersFailed.Inc()
		return
	}
	c.UsersProcessed.Inc()
}

// PredictionsProduced records the support split of one user's predictions.
func (c *Collector) PredictionsProduced(supported, unsupported int) {
	c.PredictionsTotal.WithLabelValues(SupportSupported).Add(float64(supported))
	c.PredictionsTotal.WithLabelValues(SupportUnsupported).Add(float64(unsupported))
}

// CacheLookup records a cache lookup outcome.
func (c *Collector) CacheLookup(outcome string) {
	c.CacheLookups.WithLabelValues(outcome).Inc()
}

// RecordEvaluation publishes an evaluation result.
func (c *Collector) RecordEvaluation(res evaluation.Result) {
	c.setMetric("mae", res.Error.MAE)
	c.setMetric("rmse", res.Error.RMSE)
	c.setMetric("precision", res.Relevance.Precision)
	c.setMetric("recall", res.Relevance.Recall)

	c.EvaluationCounts.WithLabelValues("pairs").Set(float64(res.Error.Pairs))
	c.EvaluationCounts.WithLabelValues("tp").Set(float64(res.Relevance.TruePositive))
	c.EvaluationCounts.WithLabelValues("fp").Set(float64(res.Relevance.FalsePositive))
	c.EvaluationCounts.WithLabelValues("fn").Set(float64(res.Relevance.FalseNegative))
}

// RecordRun publishes run-level figures.
func (c *Collector) RecordRun(duration time.Duration, finished time.Time, usersSkipped int) {
	c.RunDuration.Set(duration.Seconds())
	c.RunLastTimestamp.Set(float64(finished.Unix()))
	c.UsersSkipped.Set(float64(usersSkipped))
}

func (c *Collector) setMetric(name string, m evaluation.Metric) {
	if !m.Defined {
		c.EvaluationValue.WithLabelValues(name).Set(math.NaN())
		c.EvaluationDefined.WithLabelValues(name).Set(0)
		return
	}
	c.EvaluationValue.WithLabelValues(name).Set(m.Value)
	c.EvaluationDefined.WithLabelValues(name).Set(1)
}

// WriteTextfile writes all metrics in the node-exporter textfile format.
// The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		// 0750 permissions per gosec G301
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create metrics directory %s: %w", dir, err)
		}
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
