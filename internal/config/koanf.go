// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/cfbench/internal/dataset"
	"github.com/tomtom215/cfbench/internal/recommend/storage"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"cfbench.yaml",
	"cfbench.yml",
	"/etc/cfbench/config.yaml",
	"/etc/cfbench/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CFBENCH_CONFIG"

// envPrefix is stripped from environment variable names before mapping.
const envPrefix = "CFBENCH_"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Ratings:    "ratings.dat",
			Items:      "",
			Delimiter:  dataset.DefaultDelimiter,
			WriteSplit: false,
		},
		Recommend: RecommendConfig{
			NeighborhoodSize: 11,
			Aggregation:      "mean",
		},
		Split: SplitConfig{
			TrainFraction: 0.8,
			Seed:          42,
		},
		Evaluation: EvaluationConfig{
			RelevanceThreshold: 3,
			TopN:               10,
			SupportedOnly:      false,
		},
		Workers: WorkersConfig{
			Count:       0, // 0 = use runtime.NumCPU()
			UserTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Backend:          string(storage.BackendNone),
			Path:             "",
			Addr:             "",
			DB:               0,
			TTL:              24 * time.Hour,
			Capacity:         10000,
			ConnectTimeout:   5 * time.Second,
			BreakerThreshold: storage.DefaultBreakerThreshold,
			BreakerTimeout:   storage.DefaultBreakerTimeout,
		},
		Database: DatabaseConfig{
			Enabled:         false,
			Path:            "cfbench.duckdb",
			MaxMemory:       "1GB",
			Threads:         0,
			SavePredictions: true,
		},
		Metrics: MetricsConfig{
			Enabled:      false,
			TextfilePath: "cfbench.prom",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
		Output: OutputConfig{
			ReportPath: "",
			Pretty:     true,
		},
	}
}

// Default returns the built-in configuration without consulting files or
// the environment.
func Default() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: configPath, or CFBENCH_CONFIG, or the first of DefaultConfigPaths
//  3. Environment Variables: CFBENCH_* overrides
//
// An explicit configPath that does not exist is an error; a missing default
// file is not.
func LoadWithKoanf(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	} else {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// CFBENCH_NEIGHBORHOOD_SIZE -> recommend.neighborhood_size
	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variable names, lowercased and without the
// CFBENCH_ prefix, to koanf config paths.
var envMappings = map[string]string{
	// Data
	"ratings":     "data.ratings",
	"items":       "data.items",
	"delimiter":   "data.delimiter",
	"write_split": "data.write_split",

	// Recommendation
	"neighborhood_size": "recommend.neighborhood_size",
	"aggregation":       "recommend.aggregation",

	// Split
	"train_fraction": "split.train_fraction",
	"seed":           "split.seed",

	// Evaluation
	"relevance_threshold": "evaluation.relevance_threshold",
	"top_n":               "evaluation.top_n",
	"supported_only":      "evaluation.supported_only",

	// Workers
	"workers":      "workers.count",
	"user_timeout": "workers.user_timeout",

	// Cache
	"cache_backend":           "cache.backend",
	"cache_path":              "cache.path",
	"cache_ttl":               "cache.ttl",
	"cache_capacity":          "cache.capacity",
	"redis_addr":              "cache.addr",
	"redis_password":          "cache.password",
	"redis_db":                "cache.db",
	"redis_connect_timeout":   "cache.connect_timeout",
	"redis_breaker_threshold": "cache.breaker_threshold",
	"redis_breaker_timeout":   "cache.breaker_timeout",

	// Database
	"db_enabled":          "database.enabled",
	"duckdb_path":         "database.path",
	"duckdb_max_memory":   "database.max_memory",
	"duckdb_threads":      "database.threads",
	"db_save_predictions": "database.save_predictions",

	// Metrics
	"metrics_enabled":  "metrics.enabled",
	"metrics_textfile": "metrics.textfile_path",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Output
	"report_path":   "output.report_path",
	"report_pretty": "output.pretty",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - CFBENCH_RATINGS -> data.ratings
//   - CFBENCH_NEIGHBORHOOD_SIZE -> recommend.neighborhood_size
//   - CFBENCH_REDIS_ADDR -> cache.addr
//   - CFBENCH_LOG_LEVEL -> logging.level
//
// Unmapped variables return "" and are skipped, so unrelated CFBENCH_*
// variables (such as CFBENCH_CONFIG) never pollute the configuration.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return envMappings[key]
}
