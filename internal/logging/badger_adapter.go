// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// BadgerLogger adapts zerolog to badger's Logger interface
// (Errorf, Warningf, Infof, Debugf). Badger's info chatter is demoted to
// debug so it stays out of normal run output.
//
// Usage:
//
//	opts := badger.DefaultOptions(path).WithLogger(logging.NewBadgerLogger(logger))
type BadgerLogger struct {
	logger zerolog.Logger
}

// NewBadgerLogger wraps logger with a "badger" component field.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBadgerLogger(logger zerolog.Logger) *BadgerLogger {
	return &BadgerLogger{logger: logger.With().Str("component", "badger").Logger()}
}

// Errorf logs at error level.
func (b *BadgerLogger) Errorf(format string, args ...interface{}) {
	b.logger.Error().Msgf(trimNewline(format), args...)
}

// Warningf logs at warn level.
func (b *BadgerLogger) Warningf(format string, args ...interface{}) {
	b.logger.Warn().Msgf(trimNewline(format), args...)
}

// Infof logs at debug level.
func (b *BadgerLogger) Infof(format string, args ...interface{}) {
	b.logger.Debug().Msgf(trimNewline(format), args...)
}

// Debugf logs at trace level.
func (b *BadgerLogger) Debugf(format string, args ...interface{}) {
	b.logger.Trace().Msgf(trimNewline(format), args...)
}

// trimNewline drops the trailing newline badger appends to its formats.
func trimNewline(format string) string {
	return strings.TrimRight(format, "\n")
}
