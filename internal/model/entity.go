package model

import "fmt"

// SearchName implements search.Entity.
func (p Person) SearchName() string { return p.Name }

// SearchFields implements search.Entity.
func (p Person) SearchFields() []string {
	return []string{p.Role, p.Department, p.Email, p.Phone}
}

// SearchTags implements search.Entity: the role and, when set, the department.
func (p Person) SearchTags() []string {
	if p.Department == "" {
		return []string{p.Role}
	}
	return []string{p.Role, p.Department}
}

// SortKey implements search.Entity.
func (p Person) SortKey() (int, bool) { return orderKey(p.Order) }

// Visible implements search.Entity.
func (p Person) Visible() bool { return p.Active }

// SearchName implements search.Entity.
func (m Ministry) SearchName() string { return m.Name }

// SearchFields implements search.Entity.
func (m Ministry) SearchFields() []string {
	return []string{m.Leader, m.Description}
}

// SearchTags implements search.Entity.
func (m Ministry) SearchTags() []string { return m.Tags }

// SortKey implements search.Entity.
func (m Ministry) SortKey() (int, bool) { return orderKey(m.Order) }

// Visible implements search.Entity.
func (m Ministry) Visible() bool { return m.Active }

// SearchName implements search.Entity.
func (s Sermon) SearchName() string { return s.Title }

// SearchFields implements search.Entity.
func (s Sermon) SearchFields() []string {
	return []string{s.Speaker, s.Description, s.DateString()}
}

// SearchTags implements search.Entity.
func (s Sermon) SearchTags() []string { return s.Tags }

// SortKey orders dated sermons newest first; undated sermons have no key and sort last.
func (s Sermon) SortKey() (int, bool) {
	if s.Date == nil {
		return 0, false
	}
	y, m, d := s.Date.Date()
	return -(y*10000 + int(m)*100 + d), true
}

// Visible implements search.Entity.
func (s Sermon) Visible() bool { return s.Active }

// DateString formats the sermon date as YYYY-MM-DD, or "" when undated.
func (s Sermon) DateString() string {
	if s.Date == nil {
		return ""
	}
	return s.Date.Format("2006-01-02")
}

// ThumbnailURL returns the explicit thumbnail or the default video preview image.
func (s Sermon) ThumbnailURL() string {
	if s.Thumbnail != "" {
		return s.Thumbnail
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", s.VideoID)
}

// WatchURL links to the sermon video.
func (s Sermon) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + s.VideoID
}

func orderKey(order *int) (int, bool) {
	if order == nil {
		return 0, false
	}
	return *order, true
}
