// Package conversation keeps in-memory FAQ chat sessions.
package conversation

import (
	"errors"
	"strings"
	"sync"
	"time"

	"church_site/internal/model"
)

// ErrEmptyMessage is returned when a user sends blank text.
var ErrEmptyMessage = errors.New("message is empty")

// Answerer produces the bot reply for a user message.
type Answerer interface {
	Respond(input string) string
}

// Session is an append-only conversation between a visitor and the FAQ bot.
type Session struct {
	mu       sync.Mutex
	messages []model.ChatMessage
	nextID   int64
	answerer Answerer
	now      func() time.Time
	lastSeen time.Time
}

// NewSession starts a conversation. A non-empty greeting is recorded as the first bot message.
func NewSession(answerer Answerer, greeting string, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	s := &Session{answerer: answerer, now: now}
	s.lastSeen = now()
	if greeting != "" {
		s.appendLocked(greeting, model.SenderBot)
	}
	return s
}

// Send records the user's text followed by the bot's reply and returns both.
// Blank text is rejected and nothing is appended.
func (s *Session) Send(text string) (model.ChatMessage, model.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return model.ChatMessage{}, model.ChatMessage{}, ErrEmptyMessage
	}
	reply := s.answerer.Respond(text)

	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.appendLocked(text, model.SenderUser)
	bot := s.appendLocked(reply, model.SenderBot)
	s.lastSeen = user.CreatedAt
	return user, bot, nil
}

// Messages returns a copy of the conversation so far.
func (s *Session) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// LastActivity is the time of the last user message, or session start.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) appendLocked(text string, sender model.Sender) model.ChatMessage {
	s.nextID++
	msg := model.ChatMessage{
		ID:        s.nextID,
		Text:      text,
		Sender:    sender,
		CreatedAt: s.now(),
	}
	s.messages = append(s.messages, msg)
	return msg
}
