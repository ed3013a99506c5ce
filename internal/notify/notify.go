// Package notify tracks per-owner notification permission and routes notifications
// to the delivery channel that can reach the owner.
//
// Owners are identified as "<scheme>:<id>", e.g. "tg:12345" or "web:<uuid>".
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"church_site/internal/capability"
)

// ErrUnsupported is returned when no channel can reach an owner.
var ErrUnsupported = errors.New("notifications not supported")

const keyPrefix = "notifications:"

// Channel delivers a notification to an id within its scheme.
type Channel interface {
	Deliver(ctx context.Context, id string, n capability.Notification) error
}

// Service implements capability.Notifier.
type Service struct {
	kv     capability.KeyValueStore
	logger *slog.Logger

	mu       sync.RWMutex
	channels map[string]Channel
}

// New creates a Service that keeps permission state in kv.
func New(kv capability.KeyValueStore, logger *slog.Logger) *Service {
	return &Service{kv: kv, logger: logger, channels: make(map[string]Channel)}
}

// Register makes ch responsible for owners of the given scheme.
func (s *Service) Register(scheme string, ch Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[scheme] = ch
}

// Owner builds an owner key from scheme and id.
func Owner(scheme, id string) string {
	return scheme + ":" + id
}

func (s *Service) channel(owner string) (Channel, string, bool) {
	scheme, id, ok := strings.Cut(owner, ":")
	if !ok || id == "" {
		return nil, "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.channels[scheme]
	return ch, id, ok
}

// Permission returns the owner's permission, "default" when never set and
// "unsupported" when no channel is registered for the owner's scheme.
func (s *Service) Permission(ctx context.Context, owner string) (capability.Permission, error) {
	if _, _, ok := s.channel(owner); !ok {
		return capability.PermissionUnsupported, nil
	}
	v, ok, err := s.kv.Get(ctx, keyPrefix+owner)
	if err != nil {
		return "", fmt.Errorf("get permission: %w", err)
	}
	if !ok {
		return capability.PermissionDefault, nil
	}
	return capability.Permission(v), nil
}

// SetPermission stores the owner's decision.
func (s *Service) SetPermission(ctx context.Context, owner string, p capability.Permission) error {
	switch p {
	case capability.PermissionDefault, capability.PermissionGranted, capability.PermissionDenied:
	default:
		return fmt.Errorf("invalid permission %q", p)
	}
	if _, _, ok := s.channel(owner); !ok {
		return fmt.Errorf("owner %q: %w", owner, ErrUnsupported)
	}
	if err := s.kv.Set(ctx, keyPrefix+owner, string(p)); err != nil {
		return fmt.Errorf("set permission: %w", err)
	}
	return nil
}

// Notify delivers n to owner if permission is granted. Anything else is a silent no-op.
func (s *Service) Notify(ctx context.Context, owner string, n capability.Notification) (bool, error) {
	ch, id, ok := s.channel(owner)
	if !ok {
		return false, nil
	}
	perm, err := s.Permission(ctx, owner)
	if err != nil {
		return false, err
	}
	if perm != capability.PermissionGranted {
		s.logger.Debug("notification skipped", "owner", owner, "permission", perm)
		return false, nil
	}
	if err := ch.Deliver(ctx, id, n); err != nil {
		return false, fmt.Errorf("deliver to %s: %w", owner, err)
	}
	return true, nil
}
