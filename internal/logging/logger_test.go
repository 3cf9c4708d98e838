// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// captureJSON points the global logger at a buffer for the rest of the test.
func captureJSON(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(Config{Level: level, Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })
	return &buf
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" || cfg.Format != "console" {
		t.Errorf("DefaultConfig() = %+v, want info/console", cfg)
	}
	if cfg.Caller || !cfg.Timestamp {
		t.Errorf("DefaultConfig() caller=%v timestamp=%v, want false/true", cfg.Caller, cfg.Timestamp)
	}
}

func TestInit_JSON(t *testing.T) {
	buf := captureJSON(t, "debug")

	Info().Int("users", 3).Msg("batch complete")

	out := buf.String()
	for _, want := range []string{`"level":"info"`, `"users":3`, `"message":"batch complete"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestInit_Console(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Msg("console test")

	out := buf.String()
	if strings.Contains(out, `"level"`) {
		t.Errorf("expected console format, got JSON: %s", out)
	}
	if !strings.Contains(out, "console test") {
		t.Errorf("expected message in output: %s", out)
	}
}

func TestInit_LevelFilters(t *testing.T) {
	buf := captureJSON(t, "warn")

	Debug().Msg("debug msg")
	Info().Msg("info msg")
	Warn().Msg("warn msg")
	Error().Msg("error msg")

	out := buf.String()
	for _, dropped := range []string{"debug msg", "info msg"} {
		if strings.Contains(out, dropped) {
			t.Errorf("%q logged below warn level: %s", dropped, out)
		}
	}
	for _, kept := range []string{`"level":"warn"`, `"level":"error"`} {
		if !strings.Contains(out, kept) {
			t.Errorf("output missing %s: %s", kept, out)
		}
	}
}

func TestInit_Caller(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Caller: true, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	l := Logger()
	l.Info().Msg("with caller")

	if !strings.Contains(buf.String(), `"caller":"`) {
		t.Errorf("expected caller field: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{" DEBUG ", zerolog.DebugLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "INFO", "warn", "warning", "error", "disabled"} {
		if !ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = false, want true", level)
		}
	}
	for _, level := range []string{"", "verbose", "loud"} {
		if ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = true, want false", level)
		}
	}
}

func TestComponent(t *testing.T) {
	buf := captureJSON(t, "info")

	logger := Component("engine")
	logger.Info().Msg("component message")

	if !strings.Contains(buf.String(), `"component":"engine"`) {
		t.Errorf("expected component field in output: %s", buf.String())
	}
}
