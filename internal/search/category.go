package search

import "strings"

// Category is a named tab that groups several tags, e.g. worship -> worship, music.
type Category struct {
	Name string
	Tags []string
}

// Categories is an ordered category table.
type Categories []Category

// Resolve turns a category name into a TagFilter. An empty name or "all" yields All,
// a known category yields its tags (never All, even when it has none), anything else
// is treated as a raw tag.
func (c Categories) Resolve(name string) TagFilter {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == AllCategory {
		return All
	}
	for _, cat := range c {
		if strings.EqualFold(cat.Name, name) {
			return append(TagFilter{}, cat.Tags...)
		}
	}
	return TagFilter{name}
}

// Has reports whether name is "all" or one of the known categories.
func (c Categories) Has(name string) bool {
	if strings.EqualFold(name, AllCategory) {
		return true
	}
	for _, cat := range c {
		if strings.EqualFold(cat.Name, name) {
			return true
		}
	}
	return false
}

// Names lists the category names in table order.
func (c Categories) Names() []string {
	names := make([]string, len(c))
	for i, cat := range c {
		names[i] = cat.Name
	}
	return names
}
