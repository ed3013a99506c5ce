package service

import (
	"time"

	"church_site/internal/conversation"
	"church_site/internal/i18n"
	"church_site/internal/model"
	"church_site/internal/responder"
)

// langAnswerer answers with the current catalog's rules for one language,
// so running sessions pick up content reloads.
type langAnswerer struct {
	s    *Service
	lang i18n.Lang
}

func (a langAnswerer) Respond(input string) string {
	return a.s.responder(a.lang).Respond(input)
}

func (s *Service) responder(lang i18n.Lang) *responder.Responder {
	c := s.catalog()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.builtFrom != c {
		s.responders = make(map[i18n.Lang]*responder.Responder, len(c.FAQ))
		s.builtFrom = c
	}
	r, ok := s.responders[lang]
	if !ok {
		faq := c.FAQFor(lang)
		r = responder.New(faq.Rules, faq.Fallback)
		s.responders[lang] = r
	}
	return r
}

// Respond answers a single FAQ question without keeping a session.
func (s *Service) Respond(lang i18n.Lang, input string) string {
	return s.responder(lang).Respond(input)
}

func (s *Service) newSession(lang i18n.Lang) *conversation.Session {
	return conversation.NewSession(langAnswerer{s: s, lang: lang}, s.catalog().FAQFor(lang).Greeting, s.now)
}

// StartChat opens a fresh session under key, replacing any existing one.
func (s *Service) StartChat(key string, lang i18n.Lang) []model.ChatMessage {
	sess := s.newSession(lang)
	s.chats.Put(key, sess)
	return sess.Messages()
}

// Chat sends text in the session under key, starting one in lang if needed.
func (s *Service) Chat(key string, lang i18n.Lang, text string) (model.ChatMessage, model.ChatMessage, error) {
	sess := s.chats.GetOrCreate(key, func() *conversation.Session { return s.newSession(lang) })
	return sess.Send(text)
}

// Reply sends text in the existing session under key. Unlike Chat it never starts
// a session, so a swept or deleted session yields ErrNoSession.
func (s *Service) Reply(key, text string) (model.ChatMessage, model.ChatMessage, error) {
	sess, ok := s.chats.Get(key)
	if !ok {
		return model.ChatMessage{}, model.ChatMessage{}, ErrNoSession
	}
	return sess.Send(text)
}

// ChatMessages returns the transcript of the session under key.
func (s *Service) ChatMessages(key string) ([]model.ChatMessage, bool) {
	sess, ok := s.chats.Get(key)
	if !ok {
		return nil, false
	}
	return sess.Messages(), true
}

// EndChat discards the session under key.
func (s *Service) EndChat(key string) bool {
	return s.chats.Drop(key)
}

// SweepChats drops sessions idle for longer than idle.
func (s *Service) SweepChats(idle time.Duration) int {
	return s.chats.Sweep(idle)
}
