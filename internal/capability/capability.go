// Package capability declares the platform services the core logic depends on:
// key/value persistence, user notifications and speech output.
package capability

import (
	"context"

	"church_site/internal/i18n"
)

// KeyValueStore is a small string key/value store.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Permission is an owner's notification permission state.
type Permission string

// Permission states. Unsupported is reported for owners no delivery channel can reach.
const (
	PermissionDefault     Permission = "default"
	PermissionGranted     Permission = "granted"
	PermissionDenied      Permission = "denied"
	PermissionUnsupported Permission = "unsupported"
)

// Notification is a short message pushed to an owner.
type Notification struct {
	Title string
	Body  string
}

// Notifier sends notifications to owners who granted permission.
type Notifier interface {
	Permission(ctx context.Context, owner string) (Permission, error)
	SetPermission(ctx context.Context, owner string, p Permission) error
	// Notify delivers n when owner granted permission. It reports whether anything was sent.
	Notify(ctx context.Context, owner string, n Notification) (bool, error)
}

// Speaker reads text aloud.
type Speaker interface {
	Speak(ctx context.Context, text string, lang i18n.Lang) error
}
