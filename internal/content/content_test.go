package content

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"church_site/internal/i18n"
	"church_site/internal/model"
	"church_site/internal/search"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}

	counts := map[string]int{
		"en rules":    len(c.FAQ[i18n.English].Rules),
		"leaders":     len(c.Leaders),
		"ministries":  len(c.Ministries),
		"sermons":     len(c.Sermons),
		"assemblies":  len(c.Assemblies),
		"events":      len(c.Events),
		"devotionals": len(c.Devotionals),
		"birthdays":   len(c.Birthdays),
	}
	wantCounts := map[string]int{
		"en rules":    7,
		"leaders":     8,
		"ministries":  6,
		"sermons":     2,
		"assemblies":  4,
		"events":      4,
		"devotionals": 5,
		"birthdays":   12,
	}
	if diff := cmp.Diff(wantCounts, counts); diff != "" {
		t.Errorf("catalog sizes (-want +got):\n%s", diff)
	}

	var ids []string
	for _, r := range c.FAQ[i18n.English].Rules {
		ids = append(ids, r.ID)
	}
	wantIDs := []string{"service-times", "location", "online", "giving", "contact", "youth", "programmes"}
	if diff := cmp.Diff(wantIDs, ids); diff != "" {
		t.Errorf("rule order (-want +got):\n%s", diff)
	}

	wantFallback := "I'm here to help! You can ask me about service times, our location, online streaming, " +
		"giving, youth programs, or our weekly schedule. For more detailed information, please visit our Contact page."
	if diff := cmp.Diff(wantFallback, c.FAQ[i18n.English].Fallback); diff != "" {
		t.Errorf("fallback (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("Hello! Welcome to CAC Oke-Ibukun. How can I help you today?", c.FAQ[i18n.English].Greeting); diff != "" {
		t.Errorf("greeting (-want +got):\n%s", diff)
	}

	if _, ok := c.FAQ[i18n.Yoruba]; !ok {
		t.Error("expected a Yoruba FAQ section")
	}

	worship := c.MinistryCategories.Resolve("worship")
	if diff := cmp.Diff(search.TagFilter{"worship", "music"}, worship); diff != "" {
		t.Errorf("worship category (-want +got):\n%s", diff)
	}

	for _, p := range c.Leaders {
		if !p.Active {
			t.Errorf("leader %s should default to active", p.Name)
		}
	}
}

func TestCatalogLookups(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}

	e, ok := c.Event("3")
	if !ok {
		t.Fatal("event 3 not found")
	}
	if diff := cmp.Diff("Youth Fellowship", e.Title.Get(i18n.English)); diff != "" {
		t.Errorf("event title (-want +got):\n%s", diff)
	}
	lagos := time.FixedZone("WAT", 3600)
	if !e.StartsAt.Equal(time.Date(2025, 10, 17, 18, 0, 0, 0, lagos)) {
		t.Errorf("event start = %v", e.StartsAt)
	}
	if _, ok := c.Event("99"); ok {
		t.Error("unexpected event 99")
	}

	if _, ok := c.Page("about"); !ok {
		t.Error("about page missing")
	}
	if _, ok := c.Page("nope"); ok {
		t.Error("unexpected page")
	}

	if got := c.FAQFor(i18n.Lang("fr")); got.Greeting != c.FAQ[i18n.English].Greeting {
		t.Errorf("FAQFor unknown language should fall back to English, got %q", got.Greeting)
	}
}

func TestParseOverride(t *testing.T) {
	c, err := Parse([]byte(`
leaders:
  - {name: Pastor Peter O. Adams, role: pastor, order: 1}
  - {name: Retired Elder, role: elder, active: false}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	order := 1
	want := []model.Person{
		{Name: "Pastor Peter O. Adams", Role: model.RolePastor, Order: &order, Active: true},
		{Name: "Retired Elder", Role: model.RoleElder, Active: false},
	}
	if diff := cmp.Diff(want, c.Leaders); diff != "" {
		t.Errorf("leaders (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(6, len(c.Ministries)); diff != "" {
		t.Errorf("ministries should keep defaults (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if diff := cmp.Diff(8, len(c.Leaders)); diff != "" {
		t.Errorf("leaders (-want +got):\n%s", diff)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantInvalid bool
	}{
		{name: "unknown role", doc: "leaders: [{name: X, role: bishop}]", wantInvalid: true},
		{name: "leader without name", doc: "leaders: [{role: pastor}]", wantInvalid: true},
		{name: "sermon without id", doc: "sermons: [{title: X}]", wantInvalid: true},
		{name: "bad sermon date", doc: `sermons: [{video_id: x, date: "28/09/2025"}]`, wantInvalid: true},
		{name: "duplicate event", doc: `events: [{id: "1", starts_at: "2025-10-12T09:00:00Z"}, {id: "1", starts_at: "2025-10-12T09:00:00Z"}]`, wantInvalid: true},
		{name: "bad event time", doc: `events: [{id: "1", starts_at: "tomorrow"}]`, wantInvalid: true},
		{name: "bad birthday", doc: "birthdays: [{name: X, month: 13, day: 1}]", wantInvalid: true},
		{name: "unknown mode", doc: "schedule: [{key: k, items: [{day: Monday, modes: [Radio]}]}]", wantInvalid: true},
		{name: "rule without keywords", doc: "faq: {en: {fallback: x, rules: [{id: a, response: b}]}}", wantInvalid: true},
		{name: "unsupported faq language", doc: "faq: {fr: {fallback: x}}", wantInvalid: true},
		{name: "category without tags", doc: "ministry_categories: [{name: worship, tags: []}]", wantInvalid: true},
		{name: "category without name", doc: "leader_categories: [{tags: [pastor]}]", wantInvalid: true},
		{name: "unknown field", doc: "sermonz: []"},
		{name: "not yaml", doc: "leaders: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if diff := cmp.Diff(tt.wantInvalid, errors.Is(err, ErrInvalid)); diff != "" {
				t.Errorf("errors.Is(ErrInvalid) (-want +got):\n%s\nerror: %v", diff, err)
			}
		})
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestStoreReload(t *testing.T) {
	def, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	s := NewStore(def)

	path := filepath.Join(t.TempDir(), "content.yaml")
	writeFile(t, path, "channel_url: https://example.com/channel\n")

	var notified *Catalog
	s.OnChange(func(c *Catalog) { notified = c })

	if err := s.Reload(path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff("https://example.com/channel", s.Current().ChannelURL); diff != "" {
		t.Errorf("channel url (-want +got):\n%s", diff)
	}
	if notified != s.Current() {
		t.Error("OnChange was not called with the new catalog")
	}

	writeFile(t, path, "leaders: [{name: X, role: bishop}]\n")
	if err := s.Reload(path); err == nil {
		t.Fatal("expected reload error")
	}
	if diff := cmp.Diff("https://example.com/channel", s.Current().ChannelURL); diff != "" {
		t.Errorf("failed reload must keep previous catalog (-want +got):\n%s", diff)
	}

	if err := s.Reload(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStoreWatch(t *testing.T) {
	def, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	s := NewStore(def)

	dir := t.TempDir()
	path := filepath.Join(dir, "content.yaml")
	writeFile(t, path, "channel_url: https://example.com/one\n")

	changed := make(chan string, 4)
	s.OnChange(func(c *Catalog) {
		select {
		case changed <- c.ChannelURL:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := s.Watch(ctx, path, logger); err != nil {
		t.Fatalf("watch: %v", err)
	}

	writeFile(t, filepath.Join(dir, "other.yaml"), "channel_url: ignored\n")
	writeFile(t, path, "channel_url: https://example.com/two\n")

	select {
	case got := <-changed:
		if diff := cmp.Diff("https://example.com/two", got); diff != "" {
			t.Errorf("reloaded url (-want +got):\n%s", diff)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatchMissingDir(t *testing.T) {
	s := NewStore(&Catalog{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := s.Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "content.yaml"), logger)
	if err == nil {
		t.Error("expected error watching a missing directory")
	}
}
