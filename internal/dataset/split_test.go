// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/tomtom215/cfbench/internal/recommend"
	"github.com/tomtom215/cfbench/internal/recommend/evaluation"
)

func writeTestRatings(t *testing.T, n int) string {
	t.Helper()

	var sb strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "%d::%d::%d::%d\n", i%7+1, i, i%5+1, 978300000+i)
	}
	path := filepath.Join(t.TempDir(), "ratings.dat")
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Fields(string(data))
}

func TestSplitFile(t *testing.T) {
	path := writeTestRatings(t, 100)

	res, err := SplitFile(path, 0.8, 42)
	if err != nil {
		t.Fatalf("SplitFile() error = %v", err)
	}

	if res.TrainPath != path+"_train" || res.TestPath != path+"_test" {
		t.Errorf("paths = %s, %s", res.TrainPath, res.TestPath)
	}
	if res.TrainLines != 80 || res.TestLines != 20 {
		t.Errorf("lines = %d/%d, want 80/20", res.TrainLines, res.TestLines)
	}

	train := readLines(t, res.TrainPath)
	test := readLines(t, res.TestPath)
	all := append(append([]string{}, train...), test...)
	sort.Strings(all)

	original := readLines(t, path)
	sort.Strings(original)

	if strings.Join(all, "\n") != strings.Join(original, "\n") {
		t.Error("train and test do not partition the original lines")
	}

	if _, err := LoadRatings(res.TrainPath, Options{}); err != nil {
		t.Errorf("train file does not parse: %v", err)
	}
}

func TestSplitFile_Reproducible(t *testing.T) {
	path := writeTestRatings(t, 50)

	if _, err := SplitFile(path, 0.5, 7); err != nil {
		t.Fatal(err)
	}
	first := readLines(t, path+TrainSuffix)

	if _, err := SplitFile(path, 0.5, 7); err != nil {
		t.Fatal(err)
	}
	second := readLines(t, path+TrainSuffix)

	if strings.Join(first, ",") != strings.Join(second, ",") {
		t.Error("same seed produced different splits")
	}
}

func TestSplitFile_InvalidFraction(t *testing.T) {
	path := writeTestRatings(t, 10)

	_, err := SplitFile(path, 1, 1)
	if !errors.Is(err, evaluation.ErrInvalidFraction) {
		t.Errorf("error = %v, want ErrInvalidFraction", err)
	}
	if _, statErr := os.Stat(path + TrainSuffix); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("train file written despite invalid fraction")
	}
}

func TestWriteSplit(t *testing.T) {
	base := filepath.Join(t.TempDir(), "ratings.dat")
	train := []recommend.Rating{{UserID: 1, ItemID: 1, Score: 5}}
	test := []recommend.Rating{{UserID: 1, ItemID: 2, Score: 3}, {UserID: 2, ItemID: 1, Score: 4}}

	res, err := WriteSplit(base, train, test, Options{})
	if err != nil {
		t.Fatalf("WriteSplit() error = %v", err)
	}

	gotTest, err := LoadRatings(res.TestPath, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(gotTest) != 2 || res.TestLines != 2 || res.TrainLines != 1 {
		t.Errorf("test file has %d ratings, result %+v", len(gotTest), res)
	}
}
