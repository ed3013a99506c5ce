// Package fetcher downloads the church's video channel feed and turns entries into sermons.
package fetcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"church_site/internal/filter"
	"church_site/internal/model"
)

// maxDescription is the byte limit for stored sermon descriptions.
const maxDescription = 300

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads and parses RSS/Atom feeds.
type Fetcher struct {
	client  HTTPClient
	timeout time.Duration
}

// New creates a Fetcher with the given HTTP client.
func New(client HTTPClient) *Fetcher {
	return &Fetcher{
		client:  client,
		timeout: 30 * time.Second,
	}
}

// Fetch downloads and parses a feed from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "ChurchSiteBot/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

// FetchSermons downloads the channel feed and converts its entries with Sermons.
func (f *Fetcher) FetchSermons(ctx context.Context, url string, rules *filter.Set) ([]model.Sermon, error) {
	feed, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return Sermons(feed.Items, rules), nil
}

// Sermons converts feed items into sermons, dropping items that do not pass rules
// (e.g. "#shorts" or livestream recordings). A nil rule set keeps every item.
//
// A title of the form "Message | Speaker" is split into title and speaker.
func Sermons(items []*gofeed.Item, rules *filter.Set) []model.Sermon {
	var out []model.Sermon
	for _, item := range items {
		if !rules.Match(filter.Item{Title: item.Title, Description: description(item)}) {
			continue
		}
		title, speaker := splitTitle(item.Title)
		s := model.Sermon{
			VideoID:     VideoID(item),
			Title:       title,
			Speaker:     speaker,
			Description: description(item),
			Thumbnail:   thumbnail(item),
			Active:      true,
		}
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			s.Date = &t
		}
		out = append(out, s)
	}
	return out
}

// VideoID returns the video ID of a channel feed item.
// It prefers the yt:videoId extension, then the "yt:video:" GUID, then the watch link,
// and finally ItemGUID.
func VideoID(item *gofeed.Item) string {
	if v := extValue(item.Extensions, "yt", "videoId"); v != "" {
		return v
	}
	if id, ok := strings.CutPrefix(item.GUID, "yt:video:"); ok && id != "" {
		return id
	}
	if u, err := url.Parse(item.Link); err == nil {
		if v := u.Query().Get("v"); v != "" {
			return v
		}
	}
	return ItemGUID(item)
}

// ItemGUID returns the GUID for a feed item.
// If the item has no GUID, a SHA-256 hash of title+link is used.
func ItemGUID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	h := sha256.Sum256([]byte(item.Title + "|" + item.Link))
	return fmt.Sprintf("sha256:%x", h[:16])
}

func splitTitle(raw string) (string, string) {
	title, speaker, ok := strings.Cut(raw, " | ")
	if !ok {
		return strings.TrimSpace(raw), ""
	}
	return strings.TrimSpace(title), strings.TrimSpace(speaker)
}

func description(item *gofeed.Item) string {
	desc := item.Description
	if desc == "" {
		if group := mediaGroup(item); group != nil {
			desc = childValue(group, "description")
		}
	}
	if len(desc) > maxDescription {
		cut := maxDescription
		for cut > 0 && !utf8.RuneStart(desc[cut]) {
			cut--
		}
		desc = desc[:cut] + "..."
	}
	return desc
}

func thumbnail(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if group := mediaGroup(item); group != nil {
		if thumbs := group.Children["thumbnail"]; len(thumbs) > 0 {
			return thumbs[0].Attrs["url"]
		}
	}
	return ""
}

func mediaGroup(item *gofeed.Item) *ext.Extension {
	groups := item.Extensions["media"]["group"]
	if len(groups) == 0 {
		return nil
	}
	return &groups[0]
}

func childValue(e *ext.Extension, name string) string {
	if c := e.Children[name]; len(c) > 0 {
		return strings.TrimSpace(c[0].Value)
	}
	return ""
}

func extValue(exts ext.Extensions, ns, name string) string {
	if v := exts[ns][name]; len(v) > 0 {
		return strings.TrimSpace(v[0].Value)
	}
	return ""
}
