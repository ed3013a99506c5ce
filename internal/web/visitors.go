package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"church_site/internal/capability"
	"church_site/internal/i18n"
	"church_site/internal/notify"
)

type visitorPath struct {
	Visitor string `path:"visitor" validate:"required,uuid"`
	Event   string `path:"event" validate:"omitempty,max=64"`
}

type rsvpListResponse struct {
	EventIDs []string `json:"event_ids"`
}

type rsvpToggleResponse struct {
	Event      eventResponse `json:"event"`
	Registered bool          `json:"registered"`
	Notified   bool          `json:"notified"`
}

func (s *Server) visitorPath(r *http.Request) (visitorPath, error) {
	p := visitorPath{Visitor: chi.URLParam(r, "visitor"), Event: chi.URLParam(r, "event")}
	return p, s.validate(p)
}

func (s *Server) handleCreateVisitor(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"id": uuid.NewString()})
}

func (s *Server) handleListRSVPs(w http.ResponseWriter, r *http.Request) {
	p, err := s.visitorPath(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ids, err := s.svc.RSVPs(r.Context(), notify.Owner(webScheme, p.Visitor))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rsvpListResponse{EventIDs: ids})
}

func (s *Server) handleToggleRSVP(w http.ResponseWriter, r *http.Request) {
	p, err := s.visitorPath(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	owner := notify.Owner(webScheme, p.Visitor)
	res, err := s.svc.ToggleRSVP(r.Context(), owner, p.Event)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rsvpToggleResponse{
		Event:      eventJSON(res.Event, i18n.Negotiate(r.Header.Get("Accept-Language"))),
		Registered: res.Registered,
		Notified:   res.Notified,
	})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	p, err := s.visitorPath(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	perm, err := s.svc.Permission(r.Context(), notify.Owner(webScheme, p.Visitor))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]capability.Permission{"permission": perm})
}
