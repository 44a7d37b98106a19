package domain

import (
	"sort"
	"strings"
)

// SortMode selects the ordering of a derived bookmark view.
type SortMode string

const (
	SortLatest       SortMode = "latest"       // creation time descending (default)
	SortOldest       SortMode = "oldest"       // creation time ascending
	SortAlphabetical SortMode = "alphabetical" // title ascending, byte-wise
)

// ParseSortMode maps a raw string to a SortMode, defaulting to SortLatest.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortOldest:
		return SortOldest
	case SortAlphabetical:
		return SortAlphabetical
	default:
		return SortLatest
	}
}

// View derives a filtered, ordered copy of items.
//
// The filter keeps bookmarks whose title or URL contains query
// case-insensitively; an empty query matches everything. Ordering follows
// mode; for SortAlphabetical the compare is byte-wise on Title, with equal
// titles broken by CreatedAt descending.
//
// View is pure: same inputs produce the same output, items is never mutated.
func View(items []*Bookmark, query string, mode SortMode) []*Bookmark {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]*Bookmark, 0, len(items))
	for _, bm := range items {
		if q == "" ||
			strings.Contains(strings.ToLower(bm.Title), q) ||
			strings.Contains(strings.ToLower(bm.URL), q) {
			out = append(out, bm)
		}
	}

	switch mode {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortAlphabetical:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Title != out[j].Title {
				return out[i].Title < out[j].Title
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default: // SortLatest
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	return out
}
