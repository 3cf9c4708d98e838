// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/tomtom215/cfbench/internal/recommend"
)

// ErrInvalidFilter is wrapped by compile and type errors from NewFilter.
var ErrInvalidFilter = errors.New("invalid filter expression")

var (
	// filterEnv is shared by every filter; cel.Env is safe for concurrent use.
	filterEnv     *cel.Env
	filterEnvErr  error
	filterEnvOnce sync.Once
)

func getFilterEnv() (*cel.Env, error) {
	filterEnvOnce.Do(func() {
		filterEnv, filterEnvErr = cel.NewEnv(
			cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
			cel.Variable("predicted", cel.DoubleType),
			cel.Variable("support", cel.IntType),
			cel.CrossTypeNumericComparisons(true),
		)
	})
	return filterEnv, filterEnvErr
}

// Filter is a compiled CEL predicate over predictions.
type Filter struct {
	expr    string
	program cel.Program
	catalog *Catalog
}

// NewFilter compiles expr. The expression must evaluate to a bool. c supplies
// item metadata and may be nil.
func NewFilter(expr string, c *Catalog) (*Filter, error) {
	env, err := getFilterEnv()
	if err != nil {
		return nil, fmt.Errorf("create filter environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, issues.Err())
	}
	// Field access on item is dynamically typed and checked at evaluation.
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w: expression must return bool, got %s", ErrInvalidFilter, t)
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	return &Filter{expr: expr, program: program, catalog: c}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}

// Match evaluates the filter for one prediction.
func (f *Filter) Match(p recommend.Prediction) (bool, error) {
	out, _, err := f.program.Eval(f.activation(p))
	if err != nil {
		return false, fmt.Errorf("evaluate filter for item %d: %w", p.ItemID, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter returned %T, want bool", out.Value())
	}
	return result, nil
}

// Apply returns the predictions that match, preserving order. A nil filter
// matches everything.
func (f *Filter) Apply(preds []recommend.Prediction) ([]recommend.Prediction, error) {
	if f == nil {
		return preds, nil
	}

	out := make([]recommend.Prediction, 0, len(preds))
	for _, p := range preds {
		ok, err := f.Match(p)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *Filter) activation(p recommend.Prediction) map[string]interface{} {
	title := ""
	genres := []string{}
	if item, ok := f.catalog.Lookup(p.ItemID); ok {
		title = item.Title
		if item.Genres != nil {
			genres = item.Genres
		}
	}

	return map[string]interface{}{
		"item": map[string]interface{}{
			"id":     int64(p.ItemID),
			"title":  title,
			"genres": genres,
		},
		"predicted": p.Score,
		"support":   int64(p.Support),
	}
}
