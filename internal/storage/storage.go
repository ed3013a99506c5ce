// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"

	"church_site/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Storage is the interface for all persistence operations.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)

	UpsertSermon(ctx context.Context, s *model.Sermon) error
	GetSermon(ctx context.Context, videoID string) (*model.Sermon, error)
	ListSermons(ctx context.Context) ([]model.Sermon, error)

	MarkReminded(ctx context.Context, owner, eventID string) error
	IsReminded(ctx context.Context, owner, eventID string) (bool, error)

	SchemaVersion(ctx context.Context) (int64, error)
	Close() error
}
