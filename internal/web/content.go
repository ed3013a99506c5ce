package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"church_site/internal/i18n"
	"church_site/internal/model"
)

type searchQuery struct {
	Category string `query:"category" validate:"max=64"`
	Query    string `query:"q" validate:"max=200"`
	Tag      string `query:"tag" validate:"max=64"`
}

func (s *Server) searchQuery(r *http.Request) (searchQuery, error) {
	q := searchQuery{
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("q"),
		Tag:      r.URL.Query().Get("tag"),
	}
	return q, s.validate(q)
}

func (s *Server) handleStrings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Strings(langFrom(r)))
}

func (s *Server) handleLeaders(w http.ResponseWriter, r *http.Request) {
	q, err := s.searchQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Leaders(q.Category, q.Query))
}

func (s *Server) handleMinistries(w http.ResponseWriter, r *http.Request) {
	q, err := s.searchQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Ministries(q.Category, q.Query))
}

type sermonResponse struct {
	model.Sermon
	Date      string `json:"date,omitempty"`
	Thumbnail string `json:"thumbnail"`
	WatchURL  string `json:"watch_url"`
}

func (s *Server) handleSermons(w http.ResponseWriter, r *http.Request) {
	q, err := s.searchQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sermons, err := s.svc.Sermons(r.Context(), q.Query, q.Tag)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]sermonResponse, len(sermons))
	for i, sm := range sermons {
		out[i] = sermonResponse{
			Sermon:    sm,
			Date:      sm.DateString(),
			Thumbnail: sm.ThumbnailURL(),
			WatchURL:  sm.WatchURL(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type scheduleItemResponse struct {
	Day   string       `json:"day"`
	Time  string       `json:"time"`
	Title string       `json:"title"`
	Modes []model.Mode `json:"modes"`
}

type assemblyResponse struct {
	Key   string                 `json:"key"`
	Name  string                 `json:"name"`
	Items []scheduleItemResponse `json:"items"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	lang := langFrom(r)
	assemblies := s.svc.Schedule()
	out := make([]assemblyResponse, len(assemblies))
	for i, a := range assemblies {
		items := make([]scheduleItemResponse, len(a.Items))
		for j, it := range a.Items {
			items[j] = scheduleItemResponse{Day: it.Day, Time: it.Time, Title: it.Title.Get(lang), Modes: it.Modes}
		}
		out[i] = assemblyResponse{Key: a.Key, Name: a.Name.Get(lang), Items: items}
	}
	writeJSON(w, http.StatusOK, out)
}

type eventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
}

func eventJSON(e model.Event, lang i18n.Lang) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title.Get(lang),
		Description: e.Description.Get(lang),
		StartsAt:    e.StartsAt,
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	lang := langFrom(r)
	events := s.svc.Events()
	out := make([]eventResponse, len(events))
	for i, e := range events {
		out[i] = eventJSON(e, lang)
	}
	writeJSON(w, http.StatusOK, out)
}

type dateQuery struct {
	Date string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

// date reads ?date=YYYY-MM-DD, defaulting to today on the service clock.
func (s *Server) date(r *http.Request) (time.Time, error) {
	today := s.svc.Today()
	q := dateQuery{Date: r.URL.Query().Get("date")}
	if err := s.validate(q); err != nil {
		return time.Time{}, err
	}
	if q.Date == "" {
		return today, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, q.Date, today.Location())
	if err != nil {
		return time.Time{}, badRequest(fmt.Sprintf("invalid date %q", q.Date))
	}
	return d, nil
}

type devotionalResponse struct {
	Date string `json:"date"`
	model.Devotional
	Transcript string `json:"transcript"`
}

func (s *Server) handleDevotional(w http.ResponseWriter, r *http.Request) {
	date, err := s.date(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, ok := s.svc.Devotional(date)
	if !ok {
		writeError(w, notFound("devotional_not_found", "no devotionals available"))
		return
	}
	writeJSON(w, http.StatusOK, devotionalResponse{
		Date:       date.Format(time.DateOnly),
		Devotional: d,
		Transcript: s.svc.Transcript(d, langFrom(r)),
	})
}

func (s *Server) handleSpeakDevotional(w http.ResponseWriter, r *http.Request) {
	date, err := s.date(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	text, err := s.svc.SpeakDevotional(r.Context(), date, langFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if text == "" {
		writeError(w, notFound("devotional_not_found", "no devotionals available"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"transcript": text})
}

type monthQuery struct {
	Month int `query:"month" validate:"min=1,max=12"`
}

func (s *Server) handleBirthdays(w http.ResponseWriter, r *http.Request) {
	q := monthQuery{Month: int(s.svc.Today().Month())}
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil {
			s.fail(w, r, validationError(map[string]string{"month": "must be a number"}))
			return
		}
		q.Month = m
	}
	if err := s.validate(q); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Birthdays(time.Month(q.Month)))
}

type pageSummary struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type pageResponse struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	lang := langFrom(r)
	pages := s.svc.Pages()
	out := make([]pageSummary, len(pages))
	for i, p := range pages {
		out[i] = pageSummary{Slug: p.Slug, Title: p.Title.Get(lang)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	lang := langFrom(r)
	p, err := s.svc.Page(chi.URLParam(r, "slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(p.Body.Get(lang)), &buf); err != nil {
		s.fail(w, r, fmt.Errorf("render page %q: %w", p.Slug, err))
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Slug: p.Slug, Title: p.Title.Get(lang), HTML: buf.String()})
}
