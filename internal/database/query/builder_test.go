// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package query

import (
	"reflect"
	"testing"
	"time"
)

func TestWhereBuilder_Empty(t *testing.T) {
	clause, args := NewWhereBuilder().
		IntIn("item_id", nil).
		TimeRange("started_at", nil, nil).
		ClauseIf(false, "support > 0").
		Build()

	if clause != "" || len(args) != 0 {
		t.Errorf("Build() = (%q, %v), want empty", clause, args)
	}
}

func TestWhereBuilder_Combined(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	clause, args := NewWhereBuilder().
		Clause("run_id = ?", "abc").
		IntIn("user_id", []int{3, 5}).
		TimeRange("started_at", &start, &end).
		ClauseIf(true, "support > 0").
		Build()

	wantClause := "WHERE run_id = ? AND user_id IN (?, ?) AND started_at >= ? AND started_at <= ? AND support > 0"
	if clause != wantClause {
		t.Errorf("clause = %q, want %q", clause, wantClause)
	}
	wantArgs := []interface{}{"abc", 3, 5, start, end}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
}

func TestWhereBuilder_OpenRange(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	clause, args := NewWhereBuilder().TimeRange("finished_at", &start, nil).Build()
	if clause != "WHERE finished_at >= ?" {
		t.Errorf("clause = %q", clause)
	}
	if len(args) != 1 {
		t.Errorf("args = %v, want one", args)
	}
}

func TestWhereBuilder_SingleIn(t *testing.T) {
	clause, _ := NewWhereBuilder().IntIn("item_id", []int{7}).Build()
	if clause != "WHERE item_id IN (?)" {
		t.Errorf("clause = %q", clause)
	}
}

func TestLimit(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		wantQ    string
		wantArgs []interface{}
	}{
		{"positive", 5, "SELECT 1 WHERE a = ? LIMIT ?", []interface{}{"x", 5}},
		{"zero", 0, "SELECT 1 WHERE a = ?", []interface{}{"x"}},
		{"negative", -1, "SELECT 1 WHERE a = ?", []interface{}{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := Limit("SELECT 1 WHERE a = ?", []interface{}{"x"}, tt.limit)
			if q != tt.wantQ || !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("Limit() = (%q, %v), want (%q, %v)", q, args, tt.wantQ, tt.wantArgs)
			}
		})
	}
}
