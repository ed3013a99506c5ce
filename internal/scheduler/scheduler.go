// Package scheduler runs the periodic background jobs: sermon feed sync,
// event reminders and idle chat cleanup.
package scheduler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"church_site/internal/fetcher"
	"church_site/internal/filter"
	"church_site/internal/storage"
)

const lastSyncKey = "sermon-sync:last"

// Jobs is the part of the service the scheduler drives.
type Jobs interface {
	SendReminders(ctx context.Context, window time.Duration) (int, error)
	SweepChats(idle time.Duration) int
}

// Options configures the periodic jobs. An empty FeedURL disables sermon sync.
// A nil Filter publishes every feed entry.
type Options struct {
	FeedURL        string
	Filter         *filter.Set
	SyncEvery      time.Duration
	ReminderWindow time.Duration
	SessionIdle    time.Duration
}

// Scheduler periodically syncs sermons, sends reminders and sweeps idle chats.
type Scheduler struct {
	store   storage.Storage
	fetcher *fetcher.Fetcher
	jobs    Jobs
	opts    Options
	log     *slog.Logger
	tick    time.Duration
	now     func() time.Time
}

// New creates a Scheduler with the default HTTP client.
func New(store storage.Storage, jobs Jobs, opts Options, log *slog.Logger) *Scheduler {
	return NewWithFetcher(store, fetcher.New(http.DefaultClient), jobs, opts, log)
}

// NewWithFetcher creates a Scheduler with a custom fetcher (useful for testing).
func NewWithFetcher(store storage.Storage, f *fetcher.Fetcher, jobs Jobs, opts Options, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store:   store,
		fetcher: f,
		jobs:    jobs,
		opts:    opts,
		log:     log,
		tick:    1 * time.Minute,
		now:     time.Now,
	}
}

// SetTickInterval overrides the default 1-minute check interval.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	s.tick = d
}

// Run starts the scheduler loop, blocking until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.runAll(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runAll(ctx)
		}
	}
}

func (s *Scheduler) runAll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if s.syncDue(ctx) {
		s.syncSermons(ctx)
	}

	if s.opts.ReminderWindow > 0 {
		sent, err := s.jobs.SendReminders(ctx, s.opts.ReminderWindow)
		if err != nil {
			s.log.Error("send reminders", "error", err)
		} else if sent > 0 {
			s.log.Info("sent event reminders", "count", sent)
		}
	}

	if s.opts.SessionIdle > 0 {
		if n := s.jobs.SweepChats(s.opts.SessionIdle); n > 0 {
			s.log.Debug("swept idle chats", "count", n)
		}
	}
}

func (s *Scheduler) syncDue(ctx context.Context) bool {
	if s.opts.FeedURL == "" {
		return false
	}
	v, ok, err := s.store.Get(ctx, lastSyncKey)
	if err != nil {
		s.log.Error("get last sync", "error", err)
		return false
	}
	if !ok {
		return true
	}
	last, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return true
	}
	return s.now().Sub(last) >= s.opts.SyncEvery
}

func (s *Scheduler) syncSermons(ctx context.Context) {
	s.log.Debug("syncing sermons", "url", s.opts.FeedURL)

	sermons, err := s.fetcher.FetchSermons(ctx, s.opts.FeedURL, s.opts.Filter)
	if err != nil {
		s.log.Error("fetch sermons", "url", s.opts.FeedURL, "error", err)
		s.updateLastSync(ctx)
		return
	}

	saved := 0
	for i := range sermons {
		if ctx.Err() != nil {
			return
		}
		if err := s.store.UpsertSermon(ctx, &sermons[i]); err != nil {
			s.log.Error("upsert sermon", "video_id", sermons[i].VideoID, "error", err)
			continue
		}
		saved++
	}
	s.log.Info("synced sermons", "count", saved)

	s.updateLastSync(ctx)
}

func (s *Scheduler) updateLastSync(ctx context.Context) {
	if err := s.store.Set(ctx, lastSyncKey, s.now().UTC().Format(time.RFC3339)); err != nil {
		s.log.Error("update last sync", "error", err)
	}
}
