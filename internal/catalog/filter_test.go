// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package catalog

import (
	"errors"
	"testing"

	"github.com/tomtom215/cfbench/internal/recommend"
)

func filterPredictions() []recommend.Prediction {
	return []recommend.Prediction{
		{UserID: 1, ItemID: 1, Score: 4.5, Support: 5},
		{UserID: 1, ItemID: 2, Score: 3.0, Support: 1},
		{UserID: 1, ItemID: 3, Score: 4.0, Support: 3},
		{UserID: 1, ItemID: 77, Score: 2.0, Support: 0},
	}
}

func itemIDs(preds []recommend.Prediction) []int {
	ids := make([]int, len(preds))
	for i, p := range preds {
		ids[i] = p.ItemID
	}
	return ids
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []int
	}{
		{"genre membership", `"Comedy" in item.genres`, []int{1}},
		{"score threshold", `predicted >= 4.0`, []int{1, 3}},
		{"int literal against double", `predicted >= 4`, []int{1, 3}},
		{"support", `support >= 3`, []int{1, 3}},
		{"title contains", `item.title.contains("(1995)")`, []int{1, 2}},
		{"negated genre", `!("Horror" in item.genres) && predicted > 2.5`, []int{1, 2}},
		{"item id", `item.id == 77`, []int{77}},
		{"unknown item has empty title", `item.title == ""`, []int{77}},
		{"always true", `true`, []int{1, 2, 3, 77}},
	}

	c := testCatalog()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFilter(tt.expr, c)
			if err != nil {
				t.Fatalf("NewFilter(%q) error = %v", tt.expr, err)
			}
			got, err := f.Apply(filterPredictions())
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			ids := itemIDs(got)
			if len(ids) != len(tt.want) {
				t.Fatalf("Apply() items = %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Fatalf("Apply() items = %v, want %v", ids, tt.want)
				}
			}
		})
	}
}

func TestNewFilter_Invalid(t *testing.T) {
	for _, expr := range []string{
		`predicted >=`,
		`unknown_var == 1`,
		`predicted + 1.0`,
		`support`,
	} {
		if _, err := NewFilter(expr, nil); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("NewFilter(%q) error = %v, want ErrInvalidFilter", expr, err)
		}
	}
}

func TestFilter_NilMatchesAll(t *testing.T) {
	var f *Filter
	got, err := f.Apply(filterPredictions())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Errorf("nil filter kept %d predictions, want 4", len(got))
	}
}

func TestFilter_NonBoolRuntime(t *testing.T) {
	f, err := NewFilter(`item.title`, testCatalog())
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}
	if _, err := f.Apply(filterPredictions()); err == nil {
		t.Error("Apply() should fail when the expression yields a string")
	}
}

func TestFilter_String(t *testing.T) {
	f, err := NewFilter(`support > 0`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.String() != `support > 0` {
		t.Errorf("String() = %q", f.String())
	}
}
