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

func TestBadgerLogger_Levels(t *testing.T) {
	var buf bytes.Buffer

	original := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(original)

	logger := NewBadgerLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))

	tests := []struct {
		name  string
		log   func()
		level string
	}{
		{"Errorf", func() { logger.Errorf("disk %s\n", "full") }, `"level":"error"`},
		{"Warningf", func() { logger.Warningf("slow %d\n", 3) }, `"level":"warn"`},
		{"Infof", func() { logger.Infof("opened\n") }, `"level":"debug"`},
		{"Debugf", func() { logger.Debugf("compaction\n") }, `"level":"trace"`},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.log()
		output := buf.String()
		if !strings.Contains(output, tt.level) {
			t.Errorf("%s: expected %s in output: %s", tt.name, tt.level, output)
		}
		if !strings.Contains(output, `"component":"badger"`) {
			t.Errorf("%s: expected badger component in output: %s", tt.name, output)
		}
	}
}

func TestBadgerLogger_TrimsNewline(t *testing.T) {
	var buf bytes.Buffer
	logger := NewBadgerLogger(zerolog.New(&buf))

	logger.Errorf("value log %s\n", "corrupt")

	if !strings.Contains(buf.String(), `"message":"value log corrupt"`) {
		t.Errorf("expected trimmed message in output: %s", buf.String())
	}
}
