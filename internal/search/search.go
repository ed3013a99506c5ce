// Package search implements free-text and tag filtering over small in-memory collections.
package search

import (
	"cmp"
	"slices"
	"strings"
)

// Entity is anything the search engine can filter and order.
type Entity interface {
	SearchName() string
	SearchFields() []string
	SearchTags() []string
	SortKey() (int, bool)
	Visible() bool
}

// TagFilter is a resolved set of accepted tags. An entity passes when it carries any of them.
// Only the nil value (All) disables tag filtering; a non-nil empty filter accepts nothing.
type TagFilter []string

// All accepts every entity regardless of its tags.
var All TagFilter

// AllCategory is the sentinel category name meaning "no tag filter".
const AllCategory = "all"

// Search returns the visible items matching query and filter, ordered by sort key
// (missing keys last) and then by case-insensitive name. The input is never modified.
//
// The query matches as a substring of the lower-cased haystack made of the name,
// the secondary fields and the tags. An empty or whitespace-only query matches everything.
func Search[T Entity](items []T, query string, filter TagFilter) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	want := normalizeTags(filter)

	out := make([]T, 0, len(items))
	for _, item := range items {
		if !item.Visible() {
			continue
		}
		if want != nil && !hasAnyTag(item, want) {
			continue
		}
		if q != "" && !strings.Contains(Haystack(item), q) {
			continue
		}
		out = append(out, item)
	}

	slices.SortStableFunc(out, compare[T])
	return out
}

// Haystack builds the lower-cased text a query is matched against.
func Haystack(e Entity) string {
	parts := make([]string, 0, 8)
	parts = append(parts, e.SearchName())
	parts = append(parts, e.SearchFields()...)
	parts = append(parts, e.SearchTags()...)
	return strings.ToLower(strings.Join(parts, " "))
}

func compare[T Entity](a, b T) int {
	ka, okA := a.SortKey()
	kb, okB := b.SortKey()
	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	case okA && okB && ka != kb:
		return cmp.Compare(ka, kb)
	}
	return strings.Compare(strings.ToLower(a.SearchName()), strings.ToLower(b.SearchName()))
}

func normalizeTags(filter TagFilter) map[string]struct{} {
	if filter == nil {
		return nil
	}
	set := make(map[string]struct{}, len(filter))
	for _, t := range filter {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return set
}

func hasAnyTag(e Entity, want map[string]struct{}) bool {
	for _, t := range e.SearchTags() {
		if _, ok := want[strings.ToLower(strings.TrimSpace(t))]; ok {
			return true
		}
	}
	return false
}
