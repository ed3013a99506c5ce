// Package capabilitytest provides in-memory capability implementations for tests.
package capabilitytest

import (
	"context"
	"sync"

	"church_site/internal/capability"
	"church_site/internal/i18n"
)

var (
	_ capability.KeyValueStore = (*MemoryStore)(nil)
	_ capability.Speaker       = (*Recorder)(nil)
)

// MemoryStore is an in-process KeyValueStore.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Utterance is one recorded Speak call.
type Utterance struct {
	Text string
	Lang i18n.Lang
}

// Recorder is a Speaker that remembers what it was asked to say.
type Recorder struct {
	mu     sync.Mutex
	spoken []Utterance
}

func (r *Recorder) Speak(_ context.Context, text string, lang i18n.Lang) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spoken = append(r.spoken, Utterance{Text: text, Lang: lang})
	return nil
}

// Spoken returns a copy of the recorded utterances.
func (r *Recorder) Spoken() []Utterance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Utterance, len(r.spoken))
	copy(out, r.spoken)
	return out
}
