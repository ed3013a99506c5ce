package search

// Record is a generic searchable entity for callers without a domain type of their own.
type Record struct {
	Name   string
	Fields []string
	Tags   []string
	Order  *int
	Active bool
}

// SearchName implements Entity.
func (r Record) SearchName() string { return r.Name }

// SearchFields implements Entity.
func (r Record) SearchFields() []string { return r.Fields }

// SearchTags implements Entity.
func (r Record) SearchTags() []string { return r.Tags }

// SortKey implements Entity.
func (r Record) SortKey() (int, bool) {
	if r.Order == nil {
		return 0, false
	}
	return *r.Order, true
}

// Visible implements Entity.
func (r Record) Visible() bool { return r.Active }
