package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"church_site/internal/i18n"
	"church_site/internal/model"
	"church_site/internal/notify"
)

const webScheme = "web"

type createChatRequest struct {
	Lang string `json:"lang" validate:"omitempty,oneof=en yo"`
}

type chatSessionResponse struct {
	ID       string              `json:"id"`
	Lang     i18n.Lang           `json:"lang"`
	Messages []model.ChatMessage `json:"messages"`
}

type sendChatRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

type sendChatResponse struct {
	User model.ChatMessage `json:"user"`
	Bot  model.ChatMessage `json:"bot"`
}

type sessionPath struct {
	ID string `path:"id" validate:"required,uuid"`
}

func chatKey(id string) string {
	return notify.Owner(webScheme, id)
}

// sessionID validates the {id} URL parameter.
func (s *Server) sessionID(r *http.Request) (string, error) {
	p := sessionPath{ID: chi.URLParam(r, "id")}
	if err := s.validate(p); err != nil {
		return "", err
	}
	return p.ID, nil
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			s.fail(w, r, err)
			return
		}
		if err := s.validate(req); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	lang := i18n.Negotiate(r.Header.Get("Accept-Language"))
	if req.Lang != "" {
		lang = i18n.Lang(req.Lang)
	}

	id := uuid.NewString()
	msgs := s.svc.StartChat(chatKey(id), lang)
	s.log.Debug("chat started", "session_id", id, "lang", lang)
	writeJSON(w, http.StatusCreated, chatSessionResponse{ID: id, Lang: lang, Messages: msgs})
}

func (s *Server) handleChatMessages(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	msgs, ok := s.svc.ChatMessages(chatKey(id))
	if !ok {
		writeError(w, notFound("session_not_found", "chat session not found"))
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleSendChat(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req sendChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.validate(req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, bot, err := s.svc.Reply(chatKey(id), req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sendChatResponse{User: user, Bot: bot})
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessionID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !s.svc.EndChat(chatKey(id)) {
		writeError(w, notFound("session_not_found", "chat session not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
