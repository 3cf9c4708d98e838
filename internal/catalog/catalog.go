// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package catalog

import (
	"github.com/tomtom215/cfbench/internal/dataset"
	"github.com/tomtom215/cfbench/internal/recommend"
)

// Catalog is a read-only item lookup. The zero value is an empty catalog.
type Catalog struct {
	items map[int]dataset.Item
}

// New indexes items by id. Later duplicates replace earlier ones.
func New(items []dataset.Item) *Catalog {
	c := &Catalog{items: make(map[int]dataset.Item, len(items))}
	for _, item := range items {
		c.items[item.ID] = item
	}
	return c
}

// Lookup returns the item with id.
func (c *Catalog) Lookup(id int) (dataset.Item, bool) {
	if c == nil {
		return dataset.Item{}, false
	}
	item, ok := c.items[id]
	return item, ok
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Entry is a prediction joined with its item metadata.
type Entry struct {
	recommend.Prediction
	Title  string   `json:"title,omitempty"`
	Genres []string `json:"genres,omitempty"`
}

// Annotate joins metadata onto predictions, preserving order.
func (c *Catalog) Annotate(preds []recommend.Prediction) []Entry {
	entries := make([]Entry, len(preds))
	for i, p := range preds {
		entries[i] = Entry{Prediction: p}
		if item, ok := c.Lookup(p.ItemID); ok {
			entries[i].Title = item.Title
			entries[i].Genres = item.Genres
		}
	}
	return entries
}

// RatedEntry is one of a user's ratings joined with item metadata.
type RatedEntry struct {
	recommend.Rating
	Title  string   `json:"title,omitempty"`
	Genres []string `json:"genres,omitempty"`
}

// UserRatings returns the first limit items userID rated in table, ordered
// by item id, joined with metadata. A non-positive limit returns all.
func (c *Catalog) UserRatings(table *recommend.RatingTable, userID, limit int) []RatedEntry {
	items := table.RatedItems(userID)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	out := make([]RatedEntry, 0, len(items))
	for _, id := range items {
		score, _ := table.Rating(userID, id)
		entry := RatedEntry{Rating: recommend.Rating{UserID: userID, ItemID: id, Score: score}}
		if item, ok := c.Lookup(id); ok {
			entry.Title = item.Title
			entry.Genres = item.Genres
		}
		out = append(out, entry)
	}
	return out
}
