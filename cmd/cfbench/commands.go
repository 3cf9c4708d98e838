// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/tomtom215/cfbench/internal/benchmark"
	"github.com/tomtom215/cfbench/internal/config"
	"github.com/tomtom215/cfbench/internal/logging"
)

// errUsage marks invalid command line usage.
var errUsage = errors.New("usage error")

// command is one cfbench subcommand. bind registers the command's flags,
// defaulting to the loaded configuration, and returns the action to run
// once the flags are parsed.
type command struct {
	summary string
	bind    func(fs *flag.FlagSet, cfg *config.Config) func(ctx context.Context, r *benchmark.Runner, out io.Writer) error
}

var commands = map[string]command{
	"evaluate":  {summary: "split, predict every test pair and report error and relevance metrics", bind: bindEvaluate},
	"recommend": {summary: "rank the unrated items of one user", bind: bindRecommend},
	"split":     {summary: "write <ratings>_train and <ratings>_test", bind: bindSplit},
	"show":      {summary: "list the items one user rated", bind: bindShow},
	"runs":      {summary: "list persisted evaluation runs or one run's predictions", bind: bindRuns},
}

// run parses args, loads the configuration and executes one subcommand.
func run(ctx context.Context, args []string, out io.Writer) error {
	root := flag.NewFlagSet("cfbench", flag.ContinueOnError)
	configPath := root.String("config", "", "path to a YAML config file")
	root.Usage = func() { usage(root) }
	if err := root.Parse(args); err != nil {
		return err
	}

	rest := root.Args()
	if len(rest) == 0 {
		usage(root)
		return fmt.Errorf("%w: missing command", errUsage)
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		usage(root)
		return fmt.Errorf("%w: unknown command %q", errUsage, rest[0])
	}

	cfg, err := config.LoadWithKoanf(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fs := flag.NewFlagSet("cfbench "+rest[0], flag.ContinueOnError)
	fs.SetOutput(root.Output())
	action := cmd.bind(fs, cfg)
	if err := fs.Parse(rest[1:]); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Init(cfg.LoggingSetup())

	runner, err := benchmark.NewRunner(cfg, logging.Logger())
	if err != nil {
		return err
	}
	defer func() {
		if err := runner.Close(); err != nil {
			logger := logging.Component("cli")
			logger.Error().Err(err).Msg("Error closing runner")
		}
	}()

	return action(ctx, runner, out)
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "Usage: cfbench [-config path] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global flags:")
	fs.PrintDefaults()
}

func bindEvaluate(fs *flag.FlagSet, cfg *config.Config) func(context.Context, *benchmark.Runner, io.Writer) error {
	fs.StringVar(&cfg.Data.Ratings, "ratings", cfg.Data.Ratings, "ratings file")
	fs.IntVar(&cfg.Recommend.NeighborhoodSize, "k", cfg.Recommend.NeighborhoodSize, "neighborhood size")
	fs.StringVar(&cfg.Recommend.Aggregation, "aggregation", cfg.Recommend.Aggregation, "neighbor aggregation: mean or weighted")
	fs.Float64Var(&cfg.Split.TrainFraction, "train-fraction", cfg.Split.TrainFraction, "fraction of ratings used for training")
	fs.Int64Var(&cfg.Split.Seed, "seed", cfg.Split.Seed, "shuffle seed")
	fs.IntVar(&cfg.Workers.Count, "workers", cfg.Workers.Count, "concurrent users (0 = NumCPU)")
	fs.BoolVar(&cfg.Data.WriteSplit, "write-split", cfg.Data.WriteSplit, "also write the train and test files")
	fs.StringVar(&cfg.Output.ReportPath, "report", cfg.Output.ReportPath, "write the report here instead of stdout")

	return func(ctx context.Context, r *benchmark.Runner, out io.Writer) error {
		report, err := r.Evaluate(ctx)
		if err != nil {
			return err
		}

		ev := report.Evaluation
		logging.Info().
			Str("run_id", report.RunID).
			Str("mae", ev.Error.MAE.String()).
			Str("rmse", ev.Error.RMSE.String()).
			Str("precision", ev.Relevance.Precision.String()).
			Str("recall", ev.Relevance.Recall.String()).
			Msg("Evaluation complete")

		if path := cfg.Output.ReportPath; path != "" {
			if err := benchmark.SaveJSON(path, report, cfg.Output.Pretty); err != nil {
				return err
			}
			logging.Info().Str("path", path).Msg("Report written")
			return nil
		}
		return benchmark.WriteJSON(out, report, cfg.Output.Pretty)
	}
}

func bindRecommend(fs *flag.FlagSet, cfg *config.Config) func(context.Context, *benchmark.Runner, io.Writer) error {
	fs.StringVar(&cfg.Data.Ratings, "ratings", cfg.Data.Ratings, "ratings file")
	fs.StringVar(&cfg.Data.Items, "items", cfg.Data.Items, "item catalog file")
	fs.IntVar(&cfg.Recommend.NeighborhoodSize, "k", cfg.Recommend.NeighborhoodSize, "neighborhood size")
	user := fs.Int("user", 0, "user id (required)")
	limit := fs.Int("limit", 10, "number of items to return (0 = all)")
	filter := fs.String("filter", "", "CEL expression over item, predicted and support")

	return func(ctx context.Context, r *benchmark.Runner, out io.Writer) error {
		if *user == 0 {
			return fmt.Errorf("%w: -user is required", errUsage)
		}
		entries, err := r.Recommend(ctx, *user, *limit, *filter)
		if err != nil {
			return err
		}
		return benchmark.WriteJSON(out, entries, cfg.Output.Pretty)
	}
}

func bindSplit(fs *flag.FlagSet, cfg *config.Config) func(context.Context, *benchmark.Runner, io.Writer) error {
	fs.StringVar(&cfg.Data.Ratings, "ratings", cfg.Data.Ratings, "ratings file")
	fs.Float64Var(&cfg.Split.TrainFraction, "train-fraction", cfg.Split.TrainFraction, "fraction of lines written to the train file")
	fs.Int64Var(&cfg.Split.Seed, "seed", cfg.Split.Seed, "shuffle seed")

	return func(ctx context.Context, r *benchmark.Runner, out io.Writer) error {
		res, err := r.Split(ctx)
		if err != nil {
			return err
		}
		return benchmark.WriteJSON(out, res, cfg.Output.Pretty)
	}
}

func bindShow(fs *flag.FlagSet, cfg *config.Config) func(context.Context, *benchmark.Runner, io.Writer) error {
	fs.StringVar(&cfg.Data.Ratings, "ratings", cfg.Data.Ratings, "ratings file")
	fs.StringVar(&cfg.Data.Items, "items", cfg.Data.Items, "item catalog file")
	user := fs.Int("user", 0, "user id (required)")
	limit := fs.Int("limit", 0, "number of ratings to return (0 = all)")

	return func(ctx context.Context, r *benchmark.Runner, out io.Writer) error {
		if *user == 0 {
			return fmt.Errorf("%w: -user is required", errUsage)
		}
		entries, err := r.ShowUserRatings(ctx, *user, *limit)
		if err != nil {
			return err
		}
		return benchmark.WriteJSON(out, entries, cfg.Output.Pretty)
	}
}

func bindRuns(fs *flag.FlagSet, cfg *config.Config) func(context.Context, *benchmark.Runner, io.Writer) error {
	fs.StringVar(&cfg.Database.Path, "db", cfg.Database.Path, "results database path")
	since := fs.Duration("since", 0, "only runs started within this duration (0 = all)")
	limit := fs.Int("limit", 20, "maximum number of runs (0 = all)")
	runID := fs.String("run", "", "print the persisted predictions of this run")
	user := fs.Int("user", 0, "with -run, only this user's predictions")

	// Listing runs requires the results store regardless of the config file.
	cfg.Database.Enabled = true

	return func(ctx context.Context, r *benchmark.Runner, out io.Writer) error {
		if *runID != "" {
			preds, err := r.RunPredictions(ctx, *runID, *user)
			if err != nil {
				return err
			}
			return benchmark.WriteJSON(out, preds, cfg.Output.Pretty)
		}

		var from time.Time
		if *since > 0 {
			from = time.Now().Add(-*since)
		}
		runs, err := r.ListRuns(ctx, from, *limit)
		if err != nil {
			return err
		}
		return benchmark.WriteJSON(out, runs, cfg.Output.Pretty)
	}
}
