// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package config

import (
	"os"
	"runtime"
	"time"

	"github.com/tomtom215/cfbench/internal/database"
	"github.com/tomtom215/cfbench/internal/dataset"
	"github.com/tomtom215/cfbench/internal/logging"
	"github.com/tomtom215/cfbench/internal/recommend"
	"github.com/tomtom215/cfbench/internal/recommend/evaluation"
	"github.com/tomtom215/cfbench/internal/recommend/storage"
)

// Config holds all benchmark configuration
type Config struct {
	Data       DataConfig       `koanf:"data"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Split      SplitConfig      `koanf:"split"`
	Evaluation EvaluationConfig `koanf:"evaluation"`
	Workers    WorkersConfig    `koanf:"workers"`
	Cache      CacheConfig      `koanf:"cache"`
	Database   DatabaseConfig   `koanf:"database"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Logging    LoggingConfig    `koanf:"logging"`
	Output     OutputConfig     `koanf:"output"`
}

// DataConfig holds dataset locations
type DataConfig struct {
	Ratings    string `koanf:"ratings" validate:"required"`
	Items      string `koanf:"items"` // Optional item catalog (MovieID::Title::Genres)
	Delimiter  string `koanf:"delimiter" validate:"delimiter"`
	WriteSplit bool   `koanf:"write_split"` // Write <ratings>_train and <ratings>_test next to the ratings file
}

// RecommendConfig holds neighborhood and prediction settings
type RecommendConfig struct {
	NeighborhoodSize int    `koanf:"neighborhood_size" validate:"min=1"`
	Aggregation      string `koanf:"aggregation" validate:"oneof=mean weighted"`
}

// SplitConfig holds train/test split settings
type SplitConfig struct {
	TrainFraction float64 `koanf:"train_fraction" validate:"gt=0,lt=1"`
	Seed          int64   `koanf:"seed"`
}

// EvaluationConfig holds metric settings
type EvaluationConfig struct {
	RelevanceThreshold float64 `koanf:"relevance_threshold"`
	TopN               int     `koanf:"top_n" validate:"min=1"`
	SupportedOnly      bool    `koanf:"supported_only"` // Drop zero-support predictions before scoring
}

// WorkersConfig holds batch concurrency settings
type WorkersConfig struct {
	Count       int           `koanf:"count" validate:"gte=0"` // 0 = use runtime.NumCPU()
	UserTimeout time.Duration `koanf:"user_timeout" validate:"gte=0"`
}

// CacheConfig holds result cache settings
type CacheConfig struct {
	Backend          string        `koanf:"backend" validate:"oneof=none memory badger redis file"`
	Path             string        `koanf:"path" validate:"required_if=Backend badger,required_if=Backend file"`
	Addr             string        `koanf:"addr" validate:"required_if=Backend redis"`
	Password         string        `koanf:"password"`
	DB               int           `koanf:"db" validate:"gte=0"`
	TTL              time.Duration `koanf:"ttl" validate:"gte=0"`
	Capacity         int           `koanf:"capacity" validate:"gte=0"`
	ConnectTimeout   time.Duration `koanf:"connect_timeout" validate:"gte=0"`
	BreakerThreshold uint32        `koanf:"breaker_threshold"`
	BreakerTimeout   time.Duration `koanf:"breaker_timeout" validate:"gte=0"`
}

// DatabaseConfig holds results store settings
type DatabaseConfig struct {
	Enabled         bool   `koanf:"enabled"`
	Path            string `koanf:"path" validate:"required_if=Enabled true"`
	MaxMemory       string `koanf:"max_memory" validate:"omitempty,memlimit"`
	Threads         int    `koanf:"threads" validate:"gte=0"` // Number of DuckDB threads (0 = use NumCPU)
	SavePredictions bool   `koanf:"save_predictions"`         // Persist every prediction, not only the run summary
}

// MetricsConfig holds Prometheus textfile settings
type MetricsConfig struct {
	Enabled      bool   `koanf:"enabled"`
	TextfilePath string `koanf:"textfile_path" validate:"required_if=Enabled true"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"loglevel"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// OutputConfig holds report settings
type OutputConfig struct {
	ReportPath string `koanf:"report_path"` // Empty writes the JSON report to stdout
	Pretty     bool   `koanf:"pretty"`
}

// RecommendConfig projects the settings consumed by recommend.Engine.
func (c *Config) RecommendConfig() *recommend.Config {
	workers := c.Workers.Count
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &recommend.Config{
		NeighborhoodSize:   c.Recommend.NeighborhoodSize,
		Aggregation:        recommend.Aggregation(c.Recommend.Aggregation),
		TrainFraction:      c.Split.TrainFraction,
		RelevanceThreshold: c.Evaluation.RelevanceThreshold,
		TopN:               c.Evaluation.TopN,
		Seed:               c.Split.Seed,
		Workers:            workers,
		UserTimeout:        c.Workers.UserTimeout,
	}
}

// EvaluationOptions projects the settings consumed by evaluation.Evaluate.
func (c *Config) EvaluationOptions() evaluation.Options {
	return evaluation.Options{
		RelevanceThreshold: c.Evaluation.RelevanceThreshold,
		TopN:               c.Evaluation.TopN,
		SupportedOnly:      c.Evaluation.SupportedOnly,
	}
}

// StorageConfig projects the cache settings consumed by storage.New.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Backend:          storage.Backend(c.Cache.Backend),
		Path:             c.Cache.Path,
		Addr:             c.Cache.Addr,
		Password:         c.Cache.Password,
		DB:               c.Cache.DB,
		TTL:              c.Cache.TTL,
		Capacity:         c.Cache.Capacity,
		ConnectTimeout:   c.Cache.ConnectTimeout,
		BreakerThreshold: c.Cache.BreakerThreshold,
		BreakerTimeout:   c.Cache.BreakerTimeout,
	}
}

// DatabaseStoreConfig projects the settings consumed by database.Open.
func (c *Config) DatabaseStoreConfig() database.Config {
	return database.Config{
		Path:      c.Database.Path,
		Threads:   c.Database.Threads,
		MaxMemory: c.Database.MaxMemory,
	}
}

// DatasetOptions projects the settings consumed by the dataset loaders.
func (c *Config) DatasetOptions() dataset.Options {
	return dataset.Options{Delimiter: c.Data.Delimiter}
}

// LoggingSetup projects the settings consumed by logging.Init.
func (c *Config) LoggingSetup() logging.Config {
	return logging.Config{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		Caller:    c.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	}
}
