// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

/*
Package metrics provides Prometheus instrumentation for benchmark runs.

A benchmark is a batch process, so metrics are not scraped over HTTP.
Instead a Collector accumulates them on a private registry while the run
executes and WriteTextfile dumps them for the node-exporter textfile
collector at the end of the run.

# Available Metrics

Pipeline Metrics:
  - cfbench_users_processed_total: Completed user pipelines (counter)
  - cfbench_users_failed_total: Failed or timed-out user pipelines (counter)
  - cfbench_user_pipeline_duration_seconds: Per-user pipeline duration (histogram)
  - cfbench_predictions_total: Predictions produced (counter)
    Labels: support (supported, unsupported)

Cache Metrics:
  - cfbench_cache_lookups_total: Result cache lookups (counter)
    Labels: result (hit, miss, error)

Evaluation Metrics:
  - cfbench_evaluation_metric: Last run metric value, NaN when undefined (gauge)
    Labels: metric (mae, rmse, precision, recall)
  - cfbench_evaluation_metric_defined: 1 when the metric is defined (gauge)
    Labels: metric
  - cfbench_evaluation_count: Matched pairs and confusion counts (gauge)
    Labels: kind (pairs, tp, fp, fn)

Run Metrics:
  - cfbench_run_duration_seconds (gauge)
  - cfbench_run_last_timestamp_seconds (gauge)
  - cfbench_users_skipped (gauge)

# Usage

	collector := metrics.New()
	engine.SetObserver(collector)

	// ... run the batch and evaluate ...
	collector.RecordEvaluation(result)
	if err := collector.WriteTextfile("/var/lib/node_exporter/cfbench.prom"); err != nil {
	    return err
	}

# Thread Safety

All recording methods are safe for concurrent use; the engine calls the
Observer methods from its worker goroutines.
*/
package metrics
