package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"church_site/internal/capability"
	"church_site/internal/model"
)

const rsvpPrefix = "event-rsvps:"

// RSVPResult describes the outcome of ToggleRSVP.
type RSVPResult struct {
	Event      model.Event
	Registered bool
	Notified   bool
}

// RSVPs returns the IDs of events the owner registered for, in registration order.
func (s *Service) RSVPs(ctx context.Context, owner string) ([]string, error) {
	v, ok, err := s.store.Get(ctx, rsvpPrefix+owner)
	if err != nil {
		return nil, fmt.Errorf("get rsvps: %w", err)
	}
	if !ok || v == "" {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(v), &ids); err != nil {
		return nil, fmt.Errorf("decode rsvps: %w", err)
	}
	return ids, nil
}

// ToggleRSVP registers the owner for an event, or cancels an existing registration.
// A new registration sends a confirmation notification when the owner allows it.
func (s *Service) ToggleRSVP(ctx context.Context, owner, eventID string) (RSVPResult, error) {
	event, err := s.Event(eventID)
	if err != nil {
		return RSVPResult{}, err
	}

	registered, err := s.toggleRSVP(ctx, owner, eventID)
	if err != nil {
		return RSVPResult{}, err
	}

	res := RSVPResult{Event: event, Registered: registered}
	if res.Registered {
		lang := s.Language(ctx, owner)
		n := capability.Notification{
			Title: s.T(lang, "notify.rsvp_title"),
			Body:  fmt.Sprintf(s.T(lang, "notify.rsvp_body"), event.Title.Get(lang)),
		}
		sent, err := s.notifier.Notify(ctx, owner, n)
		if err != nil {
			s.log.Error("rsvp notification", "owner", owner, "event_id", eventID, "error", err)
		}
		res.Notified = sent
	}

	s.log.Info("rsvp toggled", "owner", owner, "event_id", eventID, "registered", res.Registered)
	return res, nil
}

// toggleRSVP flips eventID in the owner's stored list and reports whether it is now present.
// Updates are serialized so concurrent toggles for one owner are not lost.
func (s *Service) toggleRSVP(ctx context.Context, owner, eventID string) (bool, error) {
	s.rsvpMu.Lock()
	defer s.rsvpMu.Unlock()

	ids, err := s.RSVPs(ctx, owner)
	if err != nil {
		return false, err
	}

	registered := false
	if i := slices.Index(ids, eventID); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		ids = append(ids, eventID)
		registered = true
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return false, fmt.Errorf("encode rsvps: %w", err)
	}
	if err := s.store.Set(ctx, rsvpPrefix+owner, string(data)); err != nil {
		return false, fmt.Errorf("save rsvps: %w", err)
	}
	return registered, nil
}

// SendReminders notifies owners about events they registered for that start within window
// of now. Each owner is reminded about an event at most once.
func (s *Service) SendReminders(ctx context.Context, window time.Duration) (int, error) {
	now := s.now()
	keys, err := s.store.ListKeys(ctx, rsvpPrefix)
	if err != nil {
		return 0, fmt.Errorf("list rsvps: %w", err)
	}

	sent := 0
	for _, key := range keys {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		owner := strings.TrimPrefix(key, rsvpPrefix)
		ids, err := s.RSVPs(ctx, owner)
		if err != nil {
			s.log.Error("read rsvps", "owner", owner, "error", err)
			continue
		}
		for _, id := range ids {
			event, ok := s.catalog().Event(id)
			if !ok || !event.StartsAt.After(now) || event.StartsAt.Sub(now) > window {
				continue
			}
			reminded, err := s.remind(ctx, owner, event)
			if err != nil {
				s.log.Error("send reminder", "owner", owner, "event_id", id, "error", err)
				continue
			}
			if reminded {
				sent++
			}
		}
	}
	return sent, nil
}

func (s *Service) remind(ctx context.Context, owner string, event model.Event) (bool, error) {
	done, err := s.store.IsReminded(ctx, owner, event.ID)
	if err != nil || done {
		return false, err
	}

	lang := s.Language(ctx, owner)
	n := capability.Notification{
		Title: s.T(lang, "notify.reminder_title"),
		Body: fmt.Sprintf(s.T(lang, "notify.reminder_body"),
			event.Title.Get(lang), event.StartsAt.Format("Mon 2 Jan 15:04")),
	}
	sent, err := s.notifier.Notify(ctx, owner, n)
	if err != nil || !sent {
		return false, err
	}
	if err := s.store.MarkReminded(ctx, owner, event.ID); err != nil {
		return true, fmt.Errorf("mark reminded: %w", err)
	}
	return true, nil
}
