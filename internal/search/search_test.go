package search

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr(n int) *int { return &n }

func names[T Entity](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.SearchName()
	}
	return out
}

func sampleRecords() []Record {
	return []Record{
		{Name: "Mary Kay", Fields: []string{"Choir"}, Tags: []string{"worship", "music"}, Order: ptr(1), Active: true},
		{Name: "Tunde A.", Fields: []string{"Ushering"}, Tags: []string{"service"}, Order: ptr(2), Active: true},
	}
}

func TestSearchScenario(t *testing.T) {
	entities := sampleRecords()

	tests := []struct {
		name   string
		query  string
		filter TagFilter
		want   []string
	}{
		{name: "query by name", query: "mary", filter: All, want: []string{"Mary Kay"}},
		{name: "tag filter", query: "", filter: TagFilter{"worship"}, want: []string{"Mary Kay"}},
		{name: "everything", query: "", filter: All, want: []string{"Mary Kay", "Tunde A."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Search(entities, tt.query, tt.filter))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Search() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name   string
		items  []Record
		query  string
		filter TagFilter
		want   []string
	}{
		{
			name:  "empty collection",
			items: nil,
			query: "anything",
			want:  []string{},
		},
		{
			name: "inactive entities are hidden",
			items: []Record{
				{Name: "Hidden", Tags: []string{"worship"}, Active: false},
				{Name: "Shown", Tags: []string{"worship"}, Active: true},
			},
			filter: TagFilter{"worship"},
			want:   []string{"Shown"},
		},
		{
			name: "inactive entity hidden even when query matches it",
			items: []Record{
				{Name: "Prayer", Active: false},
			},
			query: "prayer",
			want:  []string{},
		},
		{
			name: "missing sort key sorts last",
			items: []Record{
				{Name: "Alpha", Active: true},
				{Name: "Zulu", Order: ptr(5), Active: true},
				{Name: "Beta", Order: ptr(1), Active: true},
			},
			want: []string{"Beta", "Zulu", "Alpha"},
		},
		{
			name: "ties broken by case-insensitive name",
			items: []Record{
				{Name: "elder Grace B.", Active: true},
				{Name: "Elder Ade Ola", Active: true},
				{Name: "bisi", Order: ptr(3), Active: true},
				{Name: "Adam", Order: ptr(3), Active: true},
			},
			want: []string{"Adam", "bisi", "Elder Ade Ola", "elder Grace B."},
		},
		{
			name: "query matches secondary field",
			items: []Record{
				{Name: "Choir", Fields: []string{"Mary Kay", "Leading worship in music"}, Active: true},
				{Name: "Media", Fields: []string{"Kunle I."}, Active: true},
			},
			query: "KUNLE",
			want:  []string{"Media"},
		},
		{
			name: "query matches tag",
			items: []Record{
				{Name: "Youth", Tags: []string{"discipleship"}, Active: true},
				{Name: "Prayer", Tags: []string{"spiritual"}, Active: true},
			},
			query: "disciple",
			want:  []string{"Youth"},
		},
		{
			name: "query is trimmed",
			items: []Record{
				{Name: "Choir", Active: true},
				{Name: "Media", Active: true},
			},
			query: "  choir  ",
			want:  []string{"Choir"},
		},
		{
			name: "whitespace query matches everything",
			items: []Record{
				{Name: "Media", Active: true},
				{Name: "Choir", Active: true},
			},
			query: "   ",
			want:  []string{"Choir", "Media"},
		},
		{
			name: "query spanning fields matches joined haystack",
			items: []Record{
				{Name: "Choir", Fields: []string{"Mary"}, Active: true},
			},
			query: "choir mary",
			want:  []string{"Choir"},
		},
		{
			name: "nonsense query yields nothing",
			items: []Record{
				{Name: "Choir", Active: true},
			},
			query: "zzzz",
			want:  []string{},
		},
		{
			name: "tag filter is case insensitive and any-of",
			items: []Record{
				{Name: "Choir", Tags: []string{"Music"}, Active: true},
				{Name: "Worship Team", Tags: []string{"worship"}, Active: true},
				{Name: "Ushering", Tags: []string{"service"}, Active: true},
			},
			filter: TagFilter{"worship", "MUSIC"},
			want:   []string{"Choir", "Worship Team"},
		},
		{
			name: "unicode query",
			items: []Record{
				{Name: "Àdúrà", Tags: []string{"prayer"}, Active: true},
				{Name: "Ìjọsìn", Active: true},
			},
			query: "ÀDÚRÀ",
			want:  []string{"Àdúrà"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Search(tt.items, tt.query, tt.filter))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Search() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchDoesNotMutateInput(t *testing.T) {
	items := []Record{
		{Name: "Zulu", Order: ptr(2), Active: true},
		{Name: "Alpha", Order: ptr(1), Active: true},
		{Name: "Off", Active: false},
	}
	before := make([]Record, len(items))
	copy(before, items)

	got := Search(items, "", All)
	if diff := cmp.Diff(before, items); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}

	got[0].Name = "changed"
	if diff := cmp.Diff(before, items); diff != "" {
		t.Errorf("result aliases input (-want +got):\n%s", diff)
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	items := []Record{
		{Name: "b", Active: true},
		{Name: "B", Active: true},
		{Name: "a", Order: ptr(1), Active: true},
		{Name: "c", Tags: []string{"x"}, Active: true},
	}
	first := Search(items, "", All)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, Search(items, "", All)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestTagFilterIsSubset(t *testing.T) {
	items := []Record{
		{Name: "Choir", Tags: []string{"worship", "music"}, Active: true},
		{Name: "Ushering", Tags: []string{"service"}, Active: true},
		{Name: "Band", Tags: []string{"music"}, Active: true},
		{Name: "Old Choir", Tags: []string{"worship"}, Active: false},
	}
	for _, q := range []string{"", "c", "band", "o"} {
		all := map[string]bool{}
		for _, r := range Search(items, q, All) {
			all[r.Name] = true
		}
		for _, r := range Search(items, q, TagFilter{"worship", "music"}) {
			if !all[r.Name] {
				t.Errorf("query %q: %q returned for tag filter but not for all", q, r.Name)
			}
		}
	}
}

func TestHaystack(t *testing.T) {
	r := Record{Name: "Choir", Fields: []string{"Mary Kay", ""}, Tags: []string{"Worship"}}
	if diff := cmp.Diff("choir mary kay  worship", Haystack(r)); diff != "" {
		t.Errorf("Haystack() mismatch (-want +got):\n%s", diff)
	}
}
