// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultDelimiter separates fields in MovieLens .dat files.
const DefaultDelimiter = "::"

// maxLineSize bounds a single line. MovieLens titles are far shorter.
const maxLineSize = 1 << 20

// Options controls parsing.
type Options struct {
	// Delimiter separates fields. Empty selects DefaultDelimiter.
	Delimiter string
}

func (o Options) delimiter() string {
	if o.Delimiter == "" {
		return DefaultDelimiter
	}
	return o.Delimiter
}

// ErrMalformedLine is wrapped by every ParseError.
var ErrMalformedLine = errors.New("malformed line")

// ParseError reports the position of a malformed line.
type ParseError struct {
	// Source is the file name, or "input" for readers.
	Source string

	// Line is 1-based.
	Line int

	// Reason describes what is wrong with the line.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", e.Source, e.Line, ErrMalformedLine, e.Reason)
}

// Unwrap returns ErrMalformedLine.
func (e *ParseError) Unwrap() error {
	return ErrMalformedLine
}

// scanLines calls fn for each non-blank line with its 1-based number.
// Trailing carriage returns are stripped.
func scanLines(r io.Reader, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read line %d: %w", lineNo+1, err)
	}
	return nil
}

// withFile opens path and passes it to fn, naming parse errors after path.
func withFile(path string, fn func(r io.Reader) error) error {
	f, err := os.Open(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	err = fn(f)
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Source = path
	}
	return err
}
