// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/cfbench/internal/recommend"
)

// LoadRatings reads a ratings file.
func LoadRatings(path string, opts Options) ([]recommend.Rating, error) {
	var ratings []recommend.Rating
	err := withFile(path, func(r io.Reader) error {
		var err error
		ratings, err = ReadRatings(r, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// ReadRatings parses ratings from r.
func ReadRatings(r io.Reader, opts Options) ([]recommend.Rating, error) {
	delim := opts.delimiter()
	var ratings []recommend.Rating

	err := scanLines(r, func(lineNo int, line string) error {
		rating, err := parseRating(line, delim)
		if err != nil {
			return &ParseError{Source: "input", Line: lineNo, Reason: err.Error()}
		}
		ratings = append(ratings, rating)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func parseRating(line, delim string) (recommend.Rating, error) {
	fields := strings.Split(line, delim)
	if len(fields) != 3 && len(fields) != 4 {
		return recommend.Rating{}, fmt.Errorf("want 3 or 4 fields, got %d", len(fields))
	}

	userID, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return recommend.Rating{}, fmt.Errorf("invalid user id %q", fields[0])
	}
	itemID, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return recommend.Rating{}, fmt.Errorf("invalid item id %q", fields[1])
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return recommend.Rating{}, fmt.Errorf("invalid rating %q", fields[2])
	}

	rating := recommend.Rating{UserID: userID, ItemID: itemID, Score: score}
	if len(fields) == 4 {
		ts, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
		if err != nil {
			return recommend.Rating{}, fmt.Errorf("invalid timestamp %q", fields[3])
		}
		rating.Timestamp = ts
	}
	return rating, nil
}

// WriteRatings writes ratings in the delimited format. The timestamp column
// is written only when non-zero.
func WriteRatings(w io.Writer, ratings []recommend.Rating, opts Options) error {
	delim := opts.delimiter()
	bw := bufio.NewWriter(w)

	for _, r := range ratings {
		line := strconv.Itoa(r.UserID) + delim +
			strconv.Itoa(r.ItemID) + delim +
			strconv.FormatFloat(r.Score, 'f', -1, 64)
		if r.Timestamp != 0 {
			line += delim + strconv.FormatInt(r.Timestamp, 10)
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write rating: %w", err)
		}
	}
	return bw.Flush()
}

// SaveRatings writes ratings to path, replacing any existing file.
func SaveRatings(path string, ratings []recommend.Rating, opts Options) error {
	f, err := os.Create(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteRatings(f, ratings, opts); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return err
	}
	return f.Close()
}
