package domain

import (
	"testing"
	"time"
)

func testItems() []*Bookmark {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*Bookmark{
		{ID: "1", Title: "GitHub", URL: "https://github.com", CreatedAt: base},
		{ID: "2", Title: "Go Docs", URL: "https://go.dev/doc/", CreatedAt: base.Add(1 * time.Hour)},
		{ID: "3", Title: "Arch Wiki", URL: "https://wiki.archlinux.org", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "4", Title: "GitLab", URL: "https://gitlab.com", CreatedAt: base.Add(3 * time.Hour)},
	}
}

func TestViewEmptyQueryLatest(t *testing.T) {
	items := testItems()
	got := View(items, "", SortLatest)

	if len(got) != len(items) {
		t.Fatalf("View() returned %d items, want %d", len(got), len(items))
	}
	wantOrder := []string{"4", "3", "2", "1"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("View() latest order[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestViewOldest(t *testing.T) {
	got := View(testItems(), "", SortOldest)

	wantOrder := []string{"1", "2", "3", "4"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("View() oldest order[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestViewAlphabetical(t *testing.T) {
	got := View(testItems(), "", SortAlphabetical)

	wantTitles := []string{"Arch Wiki", "GitHub", "GitLab", "Go Docs"}
	for i, title := range wantTitles {
		if got[i].Title != title {
			t.Errorf("View() alphabetical order[%d] = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestViewFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{
			name:    "case-insensitive title match",
			query:   "git",
			wantIDs: []string{"4", "1"}, // latest first
		},
		{
			name:    "url match",
			query:   "archlinux",
			wantIDs: []string{"3"},
		},
		{
			name:    "no match",
			query:   "zzz",
			wantIDs: []string{},
		},
		{
			name:    "query is trimmed",
			query:   "  go docs  ",
			wantIDs: []string{"2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := View(testItems(), tt.query, SortLatest)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("View(%q) returned %d items, want %d", tt.query, len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("View(%q)[%d] = %s, want %s", tt.query, i, got[i].ID, id)
				}
			}
		})
	}
}

func TestViewDoesNotMutateInput(t *testing.T) {
	items := testItems()
	_ = View(items, "", SortAlphabetical)

	// Input order must be untouched.
	wantOrder := []string{"1", "2", "3", "4"}
	for i, id := range wantOrder {
		if items[i].ID != id {
			t.Errorf("View() mutated input: items[%d] = %s, want %s", i, items[i].ID, id)
		}
	}
}

func TestViewReferentiallyTransparent(t *testing.T) {
	items := testItems()
	first := View(items, "git", SortAlphabetical)
	second := View(items, "git", SortAlphabetical)

	if len(first) != len(second) {
		t.Fatalf("repeated View() calls disagree on length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("repeated View() calls disagree at [%d]: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		in   string
		want SortMode
	}{
		{"latest", SortLatest},
		{"oldest", SortOldest},
		{"alphabetical", SortAlphabetical},
		{"", SortLatest},
		{"bogus", SortLatest},
	}

	for _, tt := range tests {
		if got := ParseSortMode(tt.in); got != tt.want {
			t.Errorf("ParseSortMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
