// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Item is catalog metadata for one rated item.
type Item struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Genres []string `json:"genres"`
}

// LoadItems reads an ISO-8859-1 encoded items file.
func LoadItems(path string, opts Options) ([]Item, error) {
	var items []Item
	err := withFile(path, func(r io.Reader) error {
		var err error
		items, err = ReadItems(r, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ReadItems parses ISO-8859-1 encoded items from r.
func ReadItems(r io.Reader, opts Options) ([]Item, error) {
	delim := opts.delimiter()
	decoded := charmap.ISO8859_1.NewDecoder().Reader(r)

	var items []Item
	err := scanLines(decoded, func(lineNo int, line string) error {
		item, err := parseItem(line, delim)
		if err != nil {
			return &ParseError{Source: "input", Line: lineNo, Reason: err.Error()}
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// parseItem splits "id::title::genres". Titles may not contain the delimiter.
func parseItem(line, delim string) (Item, error) {
	fields := strings.Split(line, delim)
	if len(fields) != 3 {
		return Item{}, fmt.Errorf("want 3 fields, got %d", len(fields))
	}

	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Item{}, fmt.Errorf("invalid item id %q", fields[0])
	}

	var genres []string
	for _, g := range strings.Split(fields[2], "|") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}

	return Item{ID: id, Title: fields[1], Genres: genres}, nil
}
