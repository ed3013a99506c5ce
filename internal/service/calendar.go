package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"church_site/internal/i18n"
	"church_site/internal/model"
)

// Devotional returns the reading for date: devotionals[yearDay % count].
func (s *Service) Devotional(date time.Time) (model.Devotional, bool) {
	all := s.catalog().Devotionals
	if len(all) == 0 {
		return model.Devotional{}, false
	}
	return all[date.YearDay()%len(all)], true
}

// Transcript renders a devotional as speakable text:
// "<title>. <verse>. <text>. Reflection: <reflection>".
func (s *Service) Transcript(d model.Devotional, lang i18n.Lang) string {
	return fmt.Sprintf("%s. %s. %s. %s: %s", d.Title, d.Verse, d.Text, s.T(lang, "devotional.reflection"), d.Reflection)
}

// SpeakDevotional reads the devotional for date aloud and returns the transcript.
func (s *Service) SpeakDevotional(ctx context.Context, date time.Time, lang i18n.Lang) (string, error) {
	d, ok := s.Devotional(date)
	if !ok {
		return "", nil
	}
	text := s.Transcript(d, lang)
	if err := s.speaker.Speak(ctx, text, lang); err != nil {
		return text, fmt.Errorf("speak devotional: %w", err)
	}
	return text, nil
}

// Birthdays returns the birthdays in month ordered by day.
func (s *Service) Birthdays(month time.Month) []model.Birthday {
	var out []model.Birthday
	for _, b := range s.catalog().Birthdays {
		if b.Month == month {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Birthday) int { return a.Day - b.Day })
	return out
}

// Today is the service clock's current time.
func (s *Service) Today() time.Time {
	return s.now()
}
