// Package web serves the church site JSON API.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/yuin/goldmark"

	"church_site/internal/conversation"
	"church_site/internal/i18n"
	"church_site/internal/notify"
	"church_site/internal/service"
)

// Health reports the schema version of the backing database.
type Health interface {
	SchemaVersion(ctx context.Context) (int64, error)
}

// Server holds the API dependencies.
type Server struct {
	svc       *service.Service
	health    Health
	log       *slog.Logger
	validator *validator.Validate
	markdown  goldmark.Markdown
}

// New creates a Server.
func New(svc *service.Service, health Health, log *slog.Logger) *Server {
	return &Server{
		svc:       svc,
		health:    health,
		log:       log,
		validator: newValidator(),
		markdown:  goldmark.New(),
	}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.accessLog)
	r.Use(chimiddleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, notFound("not_found", "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, &apiError{Status: http.StatusMethodNotAllowed, Code: "method_not_allowed", Message: "method not allowed"})
	})

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/{lang}", func(r chi.Router) {
			r.Use(withLang)
			r.Get("/strings", s.handleStrings)
			r.Get("/leaders", s.handleLeaders)
			r.Get("/ministries", s.handleMinistries)
			r.Get("/sermons", s.handleSermons)
			r.Get("/schedule", s.handleSchedule)
			r.Get("/events", s.handleEvents)
			r.Get("/devotional", s.handleDevotional)
			r.Post("/devotional/speak", s.handleSpeakDevotional)
			r.Get("/birthdays", s.handleBirthdays)
			r.Get("/pages", s.handlePages)
			r.Get("/pages/{slug}", s.handlePage)
		})

		r.Route("/chat/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateChat)
			r.Get("/{id}/messages", s.handleChatMessages)
			r.Post("/{id}/messages", s.handleSendChat)
			r.Delete("/{id}", s.handleDeleteChat)
		})

		r.Route("/visitors", func(r chi.Router) {
			r.Post("/", s.handleCreateVisitor)
			r.Get("/{visitor}/rsvps", s.handleListRSVPs)
			r.Post("/{visitor}/rsvps/{event}", s.handleToggleRSVP)
			r.Get("/{visitor}/notifications", s.handleNotifications)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	version, err := s.health.SchemaVersion(ctx)
	if err != nil {
		s.log.Error("health check", "error", err)
		writeError(w, &apiError{Status: http.StatusServiceUnavailable, Code: "unhealthy", Message: "database unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "schema_version": version})
}

// fail writes err as an error response, mapping domain errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apiError
	switch {
	case errors.As(err, &ae):
		writeError(w, ae)
	case errors.Is(err, service.ErrUnknownEvent):
		writeError(w, notFound("event_not_found", "event not found"))
	case errors.Is(err, service.ErrUnknownPage):
		writeError(w, notFound("page_not_found", "page not found"))
	case errors.Is(err, service.ErrNoSession):
		writeError(w, notFound("session_not_found", "chat session not found"))
	case errors.Is(err, conversation.ErrEmptyMessage):
		writeError(w, validationError(map[string]string{"text": "this field is required"}))
	case errors.Is(err, notify.ErrUnsupported):
		writeError(w, &apiError{Status: http.StatusConflict, Code: "unsupported", Message: "notifications are not supported for this visitor"})
	default:
		s.log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"error", err,
		)
		writeError(w, &apiError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "internal server error"})
	}
}

type langKey struct{}

// withLang resolves the {lang} URL parameter; unsupported languages are 404.
func withLang(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang, err := i18n.Parse(chi.URLParam(r, "lang"))
		if err != nil {
			writeError(w, notFound("unsupported_language", err.Error()))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), langKey{}, lang)))
	})
}

func langFrom(r *http.Request) i18n.Lang {
	if lang, ok := r.Context().Value(langKey{}).(i18n.Lang); ok {
		return lang
	}
	return i18n.English
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
