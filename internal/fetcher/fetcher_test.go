package fetcher

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"church_site/internal/filter"
	"church_site/internal/model"
)

type mockTransport struct {
	body       string
	statusCode int
	err        error
	gotUA      string
}

func (m *mockTransport) Do(req *http.Request) (*http.Response, error) {
	m.gotUA = req.Header.Get("User-Agent")
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

func loadFixture(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test-only fixture loading
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return string(data)
}

func TestFetch(t *testing.T) {
	xml := loadFixture(t, "../../testdata/youtube_feed.xml")

	tests := []struct {
		name      string
		transport *mockTransport
		wantTitle string
		wantItems int
		wantErr   bool
	}{
		{
			name:      "successful fetch",
			transport: &mockTransport{body: xml, statusCode: 200},
			wantTitle: "CAC Yaba English Assembly",
			wantItems: 3,
		},
		{
			name:      "http error status",
			transport: &mockTransport{body: "not found", statusCode: 404},
			wantErr:   true,
		},
		{
			name:      "network error",
			transport: &mockTransport{err: io.ErrUnexpectedEOF},
			wantErr:   true,
		},
		{
			name:      "invalid xml",
			transport: &mockTransport{body: "not xml at all", statusCode: 200},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.transport)
			feed, err := f.Fetch(context.Background(), "https://www.youtube.com/feeds/videos.xml?channel_id=UCcacyabaea")

			if diff := cmp.Diff("ChurchSiteBot/1.0", tt.transport.gotUA); diff != "" {
				t.Errorf("user agent mismatch (-want +got):\n%s", diff)
			}
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.wantTitle, feed.Title); diff != "" {
				t.Errorf("title mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantItems, len(feed.Items)); diff != "" {
				t.Errorf("item count mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFetchSermons(t *testing.T) {
	xml := loadFixture(t, "../../testdata/youtube_feed.xml")
	f := New(&mockTransport{body: xml, statusCode: 200})

	rules, err := filter.New(filter.Words(filter.Exclude, filter.ScopeTitle, []string{"#shorts", "livestream"}))
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	got, err := f.FetchSermons(context.Background(), "https://example.com/feed", rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	published := time.Date(2025, 10, 5, 11, 30, 0, 0, time.UTC)
	want := []model.Sermon{{
		VideoID:     "aaaaaaaaaa1",
		Title:       "Walking in the Spirit",
		Speaker:     "Pastor Peter O. Adams",
		Date:        &published,
		Description: "Second service sermon on Galatians 5.",
		Thumbnail:   "https://i1.ytimg.com/vi/aaaaaaaaaa1/hqdefault.jpg",
		Active:      true,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sermons mismatch (-want +got):\n%s", diff)
	}
}

func TestSermonsFilter(t *testing.T) {
	xml := loadFixture(t, "../../testdata/youtube_feed.xml")
	feed, err := gofeed.NewParser().ParseString(xml)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	tests := []struct {
		name    string
		rules   []filter.Rule
		wantIDs []string
	}{
		{
			name:    "no rules keeps everything",
			wantIDs: []string{"aaaaaaaaaa1", "bbbbbbbbbb2", "cccccccccc3"},
		},
		{
			name:    "skip is case-insensitive",
			rules:   filter.Words(filter.Exclude, filter.ScopeTitle, []string{"LIVESTREAM"}),
			wantIDs: []string{"aaaaaaaaaa1", "cccccccccc3"},
		},
		{
			name:    "blank skip words are ignored",
			rules:   filter.Words(filter.Exclude, filter.ScopeTitle, []string{"", "  "}),
			wantIDs: []string{"aaaaaaaaaa1", "bbbbbbbbbb2", "cccccccccc3"},
		},
		{
			name:    "description pattern",
			rules:   []filter.Rule{{Kind: filter.ExcludeRe, Scope: filter.ScopeDescription, Value: `galatians \d`}},
			wantIDs: []string{"bbbbbbbbbb2", "cccccccccc3"},
		},
		{
			name:    "include keeps only matches",
			rules:   filter.Words(filter.Include, filter.ScopeAll, []string{"pastor"}),
			wantIDs: []string{"aaaaaaaaaa1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := filter.New(tt.rules)
			if err != nil {
				t.Fatalf("filter: %v", err)
			}
			var gotIDs []string
			for _, s := range Sermons(feed.Items, rules) {
				gotIDs = append(gotIDs, s.VideoID)
			}
			if diff := cmp.Diff(tt.wantIDs, gotIDs); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVideoID(t *testing.T) {
	tests := []struct {
		name string
		item *gofeed.Item
		want string
	}{
		{
			name: "yt extension",
			item: &gofeed.Item{
				GUID:       "yt:video:ignored",
				Extensions: ext.Extensions{"yt": {"videoId": {{Value: "dQw4w9WgXcQ"}}}},
			},
			want: "dQw4w9WgXcQ",
		},
		{
			name: "guid prefix",
			item: &gofeed.Item{GUID: "yt:video:9bZkp7q19f0"},
			want: "9bZkp7q19f0",
		},
		{
			name: "watch link",
			item: &gofeed.Item{Link: "https://www.youtube.com/watch?v=abc123&t=10s"},
			want: "abc123",
		},
		{
			name: "plain guid",
			item: &gofeed.Item{GUID: "tag:example.com,2025:1"},
			want: "tag:example.com,2025:1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, VideoID(tt.item)); diff != "" {
				t.Errorf("VideoID mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestItemGUID(t *testing.T) {
	tests := []struct {
		name     string
		item     *gofeed.Item
		wantGUID string
		hasHash  bool
	}{
		{
			name:     "with guid",
			item:     &gofeed.Item{GUID: "abc-123"},
			wantGUID: "abc-123",
		},
		{
			name:    "without guid generates hash",
			item:    &gofeed.Item{Title: "Sermon Without GUID", Link: "https://example.com/sermon-1"},
			hasHash: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemGUID(tt.item)
			if tt.hasHash {
				if !strings.HasPrefix(got, "sha256:") {
					t.Errorf("expected sha256 prefix, got %q", got)
				}
				return
			}
			if diff := cmp.Diff(tt.wantGUID, got); diff != "" {
				t.Errorf("GUID mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		in          string
		wantTitle   string
		wantSpeaker string
	}{
		{"Living by Faith | Pastor Jane Smith", "Living by Faith", "Pastor Jane Smith"},
		{"Prayer That Prevails", "Prayer That Prevails", ""},
		{"  Grace|Truth  ", "Grace|Truth", ""},
	}
	for _, tt := range tests {
		title, speaker := splitTitle(tt.in)
		if diff := cmp.Diff([2]string{tt.wantTitle, tt.wantSpeaker}, [2]string{title, speaker}); diff != "" {
			t.Errorf("splitTitle(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestSermonsTruncatesDescription(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want string
	}{
		{
			name: "short description kept",
			desc: "Ìrètí nínú Olúwa.",
			want: "Ìrètí nínú Olúwa.",
		},
		{
			name: "ascii cut at limit",
			desc: strings.Repeat("a", 310),
			want: strings.Repeat("a", 300) + "...",
		},
		{
			name: "multi-byte cut on rune boundary",
			desc: "a" + strings.Repeat("ọ", 200),
			want: "a" + strings.Repeat("ọ", 99) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []*gofeed.Item{{GUID: "yt:video:zzzzzzzzzz9", Title: "Ìwàásù", Description: tt.desc}}
			got := Sermons(items, nil)
			if len(got) != 1 {
				t.Fatalf("expected 1 sermon, got %d", len(got))
			}
			if !utf8.ValidString(got[0].Description) {
				t.Fatalf("description is invalid UTF-8: %q", got[0].Description)
			}
			if diff := cmp.Diff(tt.want, got[0].Description); diff != "" {
				t.Errorf("description (-want +got):\n%s", diff)
			}
		})
	}
}
