// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package query

import (
	"strings"
	"time"
)

// WhereBuilder collects AND-joined conditions and their positional
// arguments. Conditions with nothing to constrain are skipped, so optional
// filter fields can be passed straight through.
//
//	where, args := query.NewWhereBuilder().
//		Clause("run_id = ?", runID).
//		IntIn("user_id", filter.UserIDs).
//		ClauseIf(filter.SupportedOnly, "support > 0").
//		Build()
//	// WHERE run_id = ? AND user_id IN (?, ?) AND support > 0
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder returns an empty builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// Clause adds a raw condition with its arguments.
func (wb *WhereBuilder) Clause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// ClauseIf adds clause only when cond holds.
func (wb *WhereBuilder) ClauseIf(cond bool, clause string, args ...interface{}) *WhereBuilder {
	if !cond {
		return wb
	}
	return wb.Clause(clause, args...)
}

// TimeRange bounds column by start and end, both inclusive. Nil bounds are
// skipped.
func (wb *WhereBuilder) TimeRange(column string, start, end *time.Time) *WhereBuilder {
	if start != nil {
		wb.Clause(column+" >= ?", *start)
	}
	if end != nil {
		wb.Clause(column+" <= ?", *end)
	}
	return wb
}

// IntIn adds "column IN (?, ...)". An empty slice is skipped.
func (wb *WhereBuilder) IntIn(column string, values []int) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	return wb.Clause(column+" IN ("+placeholders+")", args...)
}

// Build returns the WHERE clause, or "" when nothing was added, with its
// arguments in placeholder order.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(wb.clauses, " AND "), wb.args
}

// Limit appends "LIMIT ?" to q when limit is positive.
func Limit(q string, args []interface{}, limit int) (string, []interface{}) {
	if limit <= 0 {
		return q, args
	}
	return q + " LIMIT ?", append(args, limit)
}
