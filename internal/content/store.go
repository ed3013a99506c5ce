package content

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Store holds the current catalog and swaps it atomically on reload.
type Store struct {
	current  atomic.Pointer[Catalog]
	onChange []func(*Catalog)
}

// NewStore creates a Store serving c.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Current returns the catalog in effect. Callers must treat it as read-only.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// OnChange registers fn to run after every successful reload. Not safe to call
// concurrently with Watch.
func (s *Store) OnChange(fn func(*Catalog)) {
	s.onChange = append(s.onChange, fn)
}

// Reload loads path and, if it is valid, makes it the current catalog.
// On error the previous catalog stays in effect.
func (s *Store) Reload(path string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	s.current.Store(c)
	for _, fn := range s.onChange {
		fn(c)
	}
	return nil
}

// Watch reloads path whenever it changes until ctx is cancelled.
// The parent directory is watched so editors that replace the file by rename are handled.
func (s *Store) Watch(ctx context.Context, path string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	go func() {
		defer func() { _ = w.Close() }()

		// Editors often emit several events per save; coalesce them.
		var debounce <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				debounce = time.After(200 * time.Millisecond)
			case <-debounce:
				debounce = nil
				if err := s.Reload(path); err != nil {
					logger.Error("reload content, keeping previous catalog", "path", path, "error", err)
					continue
				}
				logger.Info("content reloaded", "path", path)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("content watcher", "error", err)
			}
		}
	}()

	return nil
}
