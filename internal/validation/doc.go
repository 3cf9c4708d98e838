// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

// Package validation provides struct validation using go-playground/validator v10.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Field names reported by their koanf key, as dotted paths
//   - Custom validators for log levels, DuckDB memory limits and delimiters
//   - Human-readable error messages aggregated into one error value
//
// # Quick Start
//
//	type DatabaseConfig struct {
//	    Path      string `koanf:"path" validate:"required"`
//	    MaxMemory string `koanf:"max_memory" validate:"omitempty,memlimit"`
//	}
//
//	if verr := validation.ValidateStruct(&cfg); verr != nil {
//	    for _, fe := range verr.Errors() {
//	        fmt.Println(fe.Field(), fe.Tag())
//	    }
//	    return verr
//	}
//
// # Custom Validators
//
//   - loglevel: trace, debug, info, warn, error, fatal, panic or disabled
//   - memlimit: a number followed by a unit, e.g. "512MB", "1.5GB", "2GiB"
//   - delimiter: non-empty and free of line breaks
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use.
package validation
