// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

// Package logging provides centralized zerolog-based structured logging for CFBench.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once at startup
//   - JSON output for machine consumption and console output for terminals
//   - Run ID propagation through context.Context
//   - An adapter that routes badger's internal logging through zerolog
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "console"})
//
//	logging.Info().Int("users", 943).Msg("ratings loaded")
//
//	ctx = logging.ContextWithRunID(ctx, logging.GenerateRunID())
//	logging.Ctx(ctx).Info().Msg("evaluation started")
//
// # Configuration
//
// The cfbench configuration exposes the logger under the "logging" key and
// through CFBENCH_LOG_LEVEL, CFBENCH_LOG_FORMAT and CFBENCH_LOG_CALLER.
//
// # Components
//
// Packages that own a logger take a zerolog.Logger by value and tag it:
//
//	logger := logging.Component("cli")
//
// Tests use zerolog.Nop(), or zerolog.New over a bytes.Buffer when they
// assert on output.
package logging
