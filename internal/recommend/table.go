// CFBench - User-Based Collaborative Filtering Benchmark
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cfbench

package recommend

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"sync"
)

// RatingTable is an immutable in-memory relation of ratings indexed by user
// and by item. It holds at most one rating per (user, item) pair.
//
// All methods are safe for concurrent use. Maps returned by accessors are
// shared with the table and must not be modified.
type RatingTable struct {
	byUser map[int]map[int]float64
	byItem map[int]map[int]float64
	users  []int
	items  []int
	size   int

	fingerprintOnce sync.Once
	fingerprint     string
}

// NewRatingTable builds a table from ratings.
// It rejects duplicate (user, item) pairs and non-finite scores.
func NewRatingTable(ratings []Rating) (*RatingTable, error) {
	t := &RatingTable{
		byUser: make(map[int]map[int]float64),
		byItem: make(map[int]map[int]float64),
	}

	for i, r := range ratings {
		if math.IsNaN(r.Score) || math.IsInf(r.Score, 0) {
			return nil, fmt.Errorf("rating %d (user %d, item %d): %w", i, r.UserID, r.ItemID, ErrInvalidScore)
		}

		userItems := t.byUser[r.UserID]
		if userItems == nil {
			userItems = make(map[int]float64)
			t.byUser[r.UserID] = userItems
		}
		if _, dup := userItems[r.ItemID]; dup {
			return nil, fmt.Errorf("rating %d (user %d, item %d): %w", i, r.UserID, r.ItemID, ErrDuplicateRating)
		}
		userItems[r.ItemID] = r.Score

		itemUsers := t.byItem[r.ItemID]
		if itemUsers == nil {
			itemUsers = make(map[int]float64)
			t.byItem[r.ItemID] = itemUsers
		}
		itemUsers[r.UserID] = r.Score
	}

	t.users = sortedKeys(t.byUser)
	t.items = sortedKeys(t.byItem)
	t.size = len(ratings)

	return t, nil
}

// Len returns the number of ratings.
func (t *RatingTable) Len() int {
	return t.size
}

// Users returns all user ids in ascending order.
func (t *RatingTable) Users() []int {
	return t.users
}

// Items returns all item ids in ascending order.
func (t *RatingTable) Items() []int {
	return t.items
}

// HasUser reports whether the user rated anything.
func (t *RatingTable) HasUser(userID int) bool {
	_, ok := t.byUser[userID]
	return ok
}

// UserRatings returns the user's ratings keyed by item id, or nil.
func (t *RatingTable) UserRatings(userID int) map[int]float64 {
	return t.byUser[userID]
}

// RatedItems returns the items rated by the user in ascending order.
func (t *RatingTable) RatedItems(userID int) []int {
	return sortedKeys(t.byUser[userID])
}

// Rating returns the user's rating of the item.
func (t *RatingTable) Rating(userID, itemID int) (float64, bool) {
	score, ok := t.byUser[userID][itemID]
	return score, ok
}

// ItemRatingsBy returns the ratings of the item by the given users.
// Users who did not rate the item are absent from the result.
func (t *RatingTable) ItemRatingsBy(itemID int, users []int) map[int]float64 {
	itemUsers := t.byItem[itemID]
	out := make(map[int]float64, len(users))
	for _, u := range users {
		if score, ok := itemUsers[u]; ok {
			out[u] = score
		}
	}
	return out
}

// ItemRatingCount returns how many users rated the item.
func (t *RatingTable) ItemRatingCount(itemID int) int {
	return len(t.byItem[itemID])
}

// Ratings returns every rating ordered by user id, then item id.
func (t *RatingTable) Ratings() []Rating {
	out := make([]Rating, 0, t.size)
	for _, u := range t.users {
		for _, i := range sortedKeys(t.byUser[u]) {
			out = append(out, Rating{UserID: u, ItemID: i, Score: t.byUser[u][i]})
		}
	}
	return out
}

// Fingerprint returns a stable SHA-256 digest of the table contents.
// Two tables with the same ratings share a fingerprint regardless of input order.
func (t *RatingTable) Fingerprint() string {
	t.fingerprintOnce.Do(func() {
		h := sha256.New()
		var buf [24]byte
		for _, r := range t.Ratings() {
			binary.LittleEndian.PutUint64(buf[0:8], uint64(int64(r.UserID)))
			binary.LittleEndian.PutUint64(buf[8:16], uint64(int64(r.ItemID)))
			binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(r.Score))
			h.Write(buf[:])
		}
		t.fingerprint = hex.EncodeToString(h.Sum(nil))
	})
	return t.fingerprint
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
