package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"church_site/internal/model"
	"church_site/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if dsn == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the applied migration version.
func (s *SQLite) SchemaVersion(ctx context.Context) (int64, error) {
	return migrations.Version(ctx, s.db)
}

// Get returns the value stored under key. The bool is false when the key is absent.
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	now := s.now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("set key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	return nil
}

// ListKeys returns all keys starting with prefix, sorted.
func (s *SQLite) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM kv WHERE substr(key, 1, ?) = ? ORDER BY key`,
		len(prefix), prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// UpsertSermon inserts a synced sermon or refreshes an existing one.
func (s *SQLite) UpsertSermon(ctx context.Context, sermon *model.Sermon) error {
	if strings.TrimSpace(sermon.VideoID) == "" {
		return fmt.Errorf("upsert sermon: video id is required")
	}
	now := s.now().UTC().Format(timeLayout)
	var published *string
	if sermon.Date != nil {
		v := sermon.Date.UTC().Format(timeLayout)
		published = &v
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sermons (video_id, title, speaker, published_at, description, thumbnail, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(video_id) DO UPDATE SET
		   title = excluded.title,
		   speaker = excluded.speaker,
		   published_at = excluded.published_at,
		   description = excluded.description,
		   thumbnail = excluded.thumbnail,
		   updated_at = excluded.updated_at`,
		sermon.VideoID, sermon.Title, sermon.Speaker, published, sermon.Description, sermon.Thumbnail, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert sermon: %w", err)
	}
	return nil
}

// GetSermon returns a synced sermon by video ID.
func (s *SQLite) GetSermon(ctx context.Context, videoID string) (*model.Sermon, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT video_id, title, speaker, published_at, description, thumbnail
		 FROM sermons WHERE video_id = ?`, videoID,
	)
	sermon, err := scanSermon(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sermon %q: %w", videoID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan sermon: %w", err)
	}
	return sermon, nil
}

// ListSermons returns every synced sermon, newest first.
func (s *SQLite) ListSermons(ctx context.Context) ([]model.Sermon, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT video_id, title, speaker, published_at, description, thumbnail
		 FROM sermons ORDER BY published_at DESC, video_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query sermons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sermons []model.Sermon
	for rows.Next() {
		sermon, err := scanSermon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sermon: %w", err)
		}
		sermons = append(sermons, *sermon)
	}
	return sermons, rows.Err()
}

// MarkReminded records that owner was reminded about eventID.
func (s *SQLite) MarkReminded(ctx context.Context, owner, eventID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO reminders_sent (owner, event_id, sent_at) VALUES (?, ?, ?)`,
		owner, eventID, s.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	return nil
}

// IsReminded checks whether owner was already reminded about eventID.
func (s *SQLite) IsReminded(ctx context.Context, owner, eventID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reminders_sent WHERE owner = ? AND event_id = ?`,
		owner, eventID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check reminded: %w", err)
	}
	return count > 0, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSermon(row scannable) (*model.Sermon, error) {
	var sermon model.Sermon
	var published sql.NullString
	err := row.Scan(&sermon.VideoID, &sermon.Title, &sermon.Speaker, &published, &sermon.Description, &sermon.Thumbnail)
	if err != nil {
		return nil, err
	}
	if published.Valid {
		t, err := time.Parse(timeLayout, published.String)
		if err == nil {
			sermon.Date = &t
		}
	}
	sermon.Active = true
	return &sermon, nil
}
