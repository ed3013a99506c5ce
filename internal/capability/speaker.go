package capability

import (
	"context"

	"church_site/internal/i18n"
)

// NopSpeaker discards everything. It is the speaker used when no speech backend is configured.
type NopSpeaker struct{}

// Speak implements Speaker.
func (NopSpeaker) Speak(context.Context, string, i18n.Lang) error { return nil }
