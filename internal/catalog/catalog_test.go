// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package catalog

import (
	"testing"

	"github.com/tomtom215/cfbench/internal/dataset"
	"github.com/tomtom215/cfbench/internal/recommend"
)

func testCatalog() *Catalog {
	return New([]dataset.Item{
		{ID: 1, Title: "Toy Story (1995)", Genres: []string{"Animation", "Children's", "Comedy"}},
		{ID: 2, Title: "Jumanji (1995)", Genres: []string{"Adventure", "Fantasy"}},
		{ID: 3, Title: "Scream (1996)", Genres: []string{"Horror", "Thriller"}},
	})
}

func TestCatalog_Lookup(t *testing.T) {
	c := testCatalog()

	item, ok := c.Lookup(2)
	if !ok || item.Title != "Jumanji (1995)" {
		t.Errorf("Lookup(2) = (%+v, %v)", item, ok)
	}
	if _, ok := c.Lookup(99); ok {
		t.Error("Lookup(99) found an item")
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestCatalog_NilIsEmpty(t *testing.T) {
	var c *Catalog
	if _, ok := c.Lookup(1); ok {
		t.Error("nil catalog found an item")
	}
	if c.Len() != 0 {
		t.Errorf("nil Len() = %d", c.Len())
	}
}

func TestCatalog_Annotate(t *testing.T) {
	c := testCatalog()
	preds := []recommend.Prediction{
		{UserID: 1, ItemID: 3, Score: 4, Support: 2},
		{UserID: 1, ItemID: 42, Score: 3, Support: 1},
	}

	entries := c.Annotate(preds)
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Title != "Scream (1996)" || entries[0].Score != 4 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Title != "" || entries[1].ItemID != 42 {
		t.Errorf("entries[1] = %+v, want unknown item without title", entries[1])
	}
}

func TestCatalog_UserRatings(t *testing.T) {
	table, err := recommend.NewRatingTable([]recommend.Rating{
		{UserID: 1, ItemID: 3, Score: 2},
		{UserID: 1, ItemID: 1, Score: 5},
		{UserID: 1, ItemID: 2, Score: 4},
		{UserID: 2, ItemID: 1, Score: 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	got := testCatalog().UserRatings(table, 1, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ItemID != 1 || got[0].Score != 5 || got[0].Title != "Toy Story (1995)" {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].ItemID != 2 || got[1].Score != 4 {
		t.Errorf("got[1] = %+v", got[1])
	}

	if all := testCatalog().UserRatings(table, 1, 0); len(all) != 3 {
		t.Errorf("limit 0 returned %d entries, want 3", len(all))
	}
	if none := testCatalog().UserRatings(table, 99, 5); len(none) != 0 {
		t.Errorf("unknown user returned %d entries", len(none))
	}
}
