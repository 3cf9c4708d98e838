// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/tomtom215/cfbench/internal/recommend"
	"github.com/tomtom215/cfbench/internal/recommend/evaluation"
)

// Split file suffixes.
const (
	TrainSuffix = "_train"
	TestSuffix  = "_test"
)

// SplitPaths returns the train and test file names derived from path.
func SplitPaths(path string) (train, test string) {
	return path + TrainSuffix, path + TestSuffix
}

// SplitResult describes a written split.
type SplitResult struct {
	TrainPath  string `json:"train_path"`
	TestPath   string `json:"test_path"`
	TrainLines int    `json:"train_lines"`
	TestLines  int    `json:"test_lines"`
}

// SplitFile shuffles the non-blank lines of path with seed, writes the first
// floor(n*trainFraction) to {path}_train and the rest to {path}_test.
// Lines are copied verbatim, so any line-oriented file can be split.
func SplitFile(path string, trainFraction float64, seed int64) (SplitResult, error) {
	var lines []string
	err := withFile(path, func(r io.Reader) error {
		return scanLines(r, func(_ int, line string) error {
			lines = append(lines, line)
			return nil
		})
	})
	if err != nil {
		return SplitResult{}, err
	}

	train, test, err := evaluation.SplitSeeded(lines, trainFraction, seed)
	if err != nil {
		return SplitResult{}, err
	}

	trainPath, testPath := SplitPaths(path)
	if err := writeLines(trainPath, train); err != nil {
		return SplitResult{}, err
	}
	if err := writeLines(testPath, test); err != nil {
		return SplitResult{}, err
	}

	return SplitResult{
		TrainPath:  trainPath,
		TestPath:   testPath,
		TrainLines: len(train),
		TestLines:  len(test),
	}, nil
}

// WriteSplit writes already split ratings to {path}_train and {path}_test.
func WriteSplit(path string, train, test []recommend.Rating, opts Options) (SplitResult, error) {
	trainPath, testPath := SplitPaths(path)
	if err := SaveRatings(trainPath, train, opts); err != nil {
		return SplitResult{}, err
	}
	if err := SaveRatings(testPath, test, opts); err != nil {
		return SplitResult{}, err
	}
	return SplitResult{
		TrainPath:  trainPath,
		TestPath:   testPath,
		TrainLines: len(train),
		TestLines:  len(test),
	}, nil
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path) //nolint:gosec // path is derived from operator supplied input
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			_ = f.Close() //nolint:errcheck // write error takes precedence
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close() //nolint:errcheck // flush error takes precedence
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
