// Package service is the application layer shared by the Telegram bot and the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"church_site/internal/capability"
	"church_site/internal/content"
	"church_site/internal/conversation"
	"church_site/internal/i18n"
	"church_site/internal/model"
	"church_site/internal/responder"
	"church_site/internal/search"
)

// Sentinel errors.
var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrUnknownPage  = errors.New("unknown page")
	ErrNoSession    = errors.New("no chat session")
)

// Store is the persistence the service needs.
type Store interface {
	capability.KeyValueStore
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	ListSermons(ctx context.Context) ([]model.Sermon, error)
	MarkReminded(ctx context.Context, owner, eventID string) error
	IsReminded(ctx context.Context, owner, eventID string) (bool, error)
}

// Deps holds the collaborators of a Service.
type Deps struct {
	Content     *content.Store
	Store       Store
	Notifier    capability.Notifier
	Speaker     capability.Speaker
	Logger      *slog.Logger
	DefaultLang i18n.Lang
	Now         func() time.Time
}

// Service answers every read and write the bot and the API perform.
type Service struct {
	content     *content.Store
	store       Store
	notifier    capability.Notifier
	speaker     capability.Speaker
	log         *slog.Logger
	defaultLang i18n.Lang
	now         func() time.Time
	chats       *conversation.Store

	rsvpMu sync.Mutex

	mu         sync.Mutex
	builtFrom  *content.Catalog
	responders map[i18n.Lang]*responder.Responder
}

// New creates a Service.
func New(d Deps) *Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Speaker == nil {
		d.Speaker = capability.NopSpeaker{}
	}
	if d.DefaultLang == "" {
		d.DefaultLang = i18n.English
	}
	return &Service{
		content:     d.Content,
		store:       d.Store,
		notifier:    d.Notifier,
		speaker:     d.Speaker,
		log:         d.Logger,
		defaultLang: d.DefaultLang,
		now:         d.Now,
		chats:       conversation.NewStore(d.Now),
	}
}

func (s *Service) catalog() *content.Catalog {
	return s.content.Current()
}

// T translates a UI string key.
func (s *Service) T(lang i18n.Lang, key string) string {
	return s.catalog().Strings.T(lang, key)
}

// Strings returns every UI string for lang.
func (s *Service) Strings(lang i18n.Lang) map[string]string {
	return s.catalog().Strings.Strings(lang)
}

// ChannelURL is the church's video channel.
func (s *Service) ChannelURL() string {
	return s.catalog().ChannelURL
}

// LeaderCategories lists the leadership tabs.
func (s *Service) LeaderCategories() []string {
	return s.catalog().LeaderCategories.Names()
}

// MinistryCategories lists the ministry tabs, "all" excluded.
func (s *Service) MinistryCategories() []string {
	return s.catalog().MinistryCategories.Names()
}

// Leaders searches the active leadership within a category ("" or "all" for everyone).
func (s *Service) Leaders(category, query string) []model.Person {
	c := s.catalog()
	return search.Search(c.Leaders, query, c.LeaderCategories.Resolve(category))
}

// LeaderTab is one leadership category with its matching people.
type LeaderTab struct {
	Category string
	People   []model.Person
}

// LeaderTabs runs the query against every leadership category.
func (s *Service) LeaderTabs(query string) []LeaderTab {
	c := s.catalog()
	tabs := make([]LeaderTab, 0, len(c.LeaderCategories))
	for _, cat := range c.LeaderCategories {
		tabs = append(tabs, LeaderTab{
			Category: cat.Name,
			People:   search.Search(c.Leaders, query, c.LeaderCategories.Resolve(cat.Name)),
		})
	}
	return tabs
}

// Ministries searches the active ministries within a category.
func (s *Service) Ministries(category, query string) []model.Ministry {
	c := s.catalog()
	return search.Search(c.Ministries, query, c.MinistryCategories.Resolve(category))
}

// Sermons merges catalog sermons with synced ones and searches them, newest first.
// Catalog entries win when both define the same video. An empty tag matches everything.
func (s *Service) Sermons(ctx context.Context, query, tag string) ([]model.Sermon, error) {
	all := slices.Clone(s.catalog().Sermons)
	seen := make(map[string]bool, len(all))
	for _, sm := range all {
		seen[sm.VideoID] = true
	}

	synced, err := s.store.ListSermons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sermons: %w", err)
	}
	for _, sm := range synced {
		if !seen[sm.VideoID] {
			seen[sm.VideoID] = true
			all = append(all, sm)
		}
	}

	return search.Search(all, query, search.Categories(nil).Resolve(tag)), nil
}

// Schedule returns the weekly programmes of every assembly.
func (s *Service) Schedule() []model.Assembly {
	return s.catalog().Assemblies
}

// Events returns all events ordered by start time.
func (s *Service) Events() []model.Event {
	events := slices.Clone(s.catalog().Events)
	slices.SortStableFunc(events, func(a, b model.Event) int {
		return a.StartsAt.Compare(b.StartsAt)
	})
	return events
}

// Event looks an event up by ID.
func (s *Service) Event(id string) (model.Event, error) {
	e, ok := s.catalog().Event(id)
	if !ok {
		return model.Event{}, fmt.Errorf("event %q: %w", id, ErrUnknownEvent)
	}
	return e, nil
}

// Page returns a content page by slug.
func (s *Service) Page(slug string) (model.Page, error) {
	p, ok := s.catalog().Page(slug)
	if !ok {
		return model.Page{}, fmt.Errorf("page %q: %w", slug, ErrUnknownPage)
	}
	return p, nil
}

// Pages lists the content pages.
func (s *Service) Pages() []model.Page {
	return s.catalog().Pages
}

const langPrefix = "lang:"

// Language returns the owner's saved language, or the default.
func (s *Service) Language(ctx context.Context, owner string) i18n.Lang {
	v, ok, err := s.store.Get(ctx, langPrefix+owner)
	if err != nil {
		s.log.Error("get language", "owner", owner, "error", err)
		return s.defaultLang
	}
	if !ok {
		return s.defaultLang
	}
	lang, err := i18n.Parse(v)
	if err != nil {
		return s.defaultLang
	}
	return lang
}

// SetLanguage saves the owner's language.
func (s *Service) SetLanguage(ctx context.Context, owner string, lang i18n.Lang) error {
	if err := s.store.Set(ctx, langPrefix+owner, string(lang)); err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	return nil
}

// Permission reports the owner's notification permission.
func (s *Service) Permission(ctx context.Context, owner string) (capability.Permission, error) {
	return s.notifier.Permission(ctx, owner)
}

// SetPermission records the owner's notification permission.
func (s *Service) SetPermission(ctx context.Context, owner string, p capability.Permission) error {
	return s.notifier.SetPermission(ctx, owner, p)
}
