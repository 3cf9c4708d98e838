// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

/*
Package config provides layered configuration for benchmark runs.

Configuration is loaded with Koanf v2 from three layers, each overriding the
previous one:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: the path passed to LoadWithKoanf, else
    $CFBENCH_CONFIG, else the first existing entry of DefaultConfigPaths
 3. CFBENCH_* environment variables, through an explicit mapping table

The result is validated with struct tags (internal/validation) and a few
cross-field checks.

# Example File

	data:
	  ratings: data/ratings.dat
	  items: data/movies.dat
	recommend:
	  neighborhood_size: 11
	  aggregation: mean
	split:
	  train_fraction: 0.8
	  seed: 42
	evaluation:
	  relevance_threshold: 3
	  top_n: 10
	cache:
	  backend: badger
	  path: .cache/cfbench
	database:
	  enabled: true
	  path: results/cfbench.duckdb
	logging:
	  level: debug

# Environment Variables

	CFBENCH_RATINGS, CFBENCH_ITEMS, CFBENCH_DELIMITER
	CFBENCH_NEIGHBORHOOD_SIZE, CFBENCH_AGGREGATION
	CFBENCH_TRAIN_FRACTION, CFBENCH_SEED
	CFBENCH_RELEVANCE_THRESHOLD, CFBENCH_TOP_N, CFBENCH_SUPPORTED_ONLY
	CFBENCH_WORKERS, CFBENCH_USER_TIMEOUT
	CFBENCH_CACHE_BACKEND, CFBENCH_CACHE_PATH, CFBENCH_CACHE_TTL
	CFBENCH_REDIS_ADDR, CFBENCH_REDIS_PASSWORD, CFBENCH_REDIS_DB
	CFBENCH_DB_ENABLED, CFBENCH_DUCKDB_PATH, CFBENCH_DUCKDB_MAX_MEMORY
	CFBENCH_METRICS_ENABLED, CFBENCH_METRICS_TEXTFILE
	CFBENCH_LOG_LEVEL, CFBENCH_LOG_FORMAT
	CFBENCH_REPORT_PATH

The full table is envMappings in koanf.go.

# Projections

Config is mapped onto the types of the packages it configures by
RecommendConfig, EvaluationOptions, StorageConfig, DatabaseStoreConfig,
DatasetOptions and LoggingSetup.
*/
package config
