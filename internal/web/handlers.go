package web

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/foodsearch/internal/core"
	mw "github.com/JonMunkholm/foodsearch/internal/web/middleware"
	"github.com/JonMunkholm/foodsearch/internal/web/templates"
)

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status   string     `json:"status"`
	Snapshot core.Stats `json:"snapshot"`
}

// handleSearch serves GET /search/{query}.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	page, err := s.service.Search(r.Context(), pathParam(r, "query"))
	s.respondPage(w, r, page, err)
}

// handleSearchNutrition serves GET /search_nutrition/{nutrient}.
func (s *Server) handleSearchNutrition(w http.ResponseWriter, r *http.Request) {
	page, err := s.service.SearchByNutrient(r.Context(), pathParam(r, "nutrient"))
	s.respondPage(w, r, page, err)
}

func (s *Server) respondPage(w http.ResponseWriter, r *http.Request, page core.Page, err error) {
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.setSnapshotHeader(w, r)
	writeJSON(w, http.StatusOK, page)
}

// handleHealth reports the loaded snapshot. A catalog that cannot be loaded
// makes the service unhealthy regardless of the cause.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cat, err := s.service.Snapshot(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	w.Header().Set(mw.SnapshotHeader, cat.ID.String())
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Snapshot: cat.Stats()})
}

// handleIndex renders the HTML search page. ?q= runs a query; ?mode= picks
// text (default) or nutrient.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := templates.SearchPageParams{
		Query:     q.Get("q"),
		Nutrients: core.NutrientColumns(),
	}
	status := http.StatusOK

	mode, err := core.ParseMode(q.Get("mode"))
	if err == nil {
		params.Mode = mode
	}

	if q.Has("q") {
		params.Searched = true
		if err == nil {
			params.Page, err = s.service.Query(r.Context(), params.Query, mode)
		}
		if err != nil {
			status = statusFor(err)
			msg := logError(r, err, status)
			params.Error = &msg
		}
	} else if err != nil {
		status = http.StatusBadRequest
		msg := logError(r, err, status)
		params.Error = &msg
	}

	if params.Error == nil && params.Searched {
		if cat, err := s.service.Snapshot(r.Context()); err == nil {
			params.SnapshotID = cat.ID.String()
			w.Header().Set(mw.SnapshotHeader, params.SnapshotID)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.SearchPage(params).Render(r.Context(), w); err != nil {
		logError(r, err, http.StatusInternalServerError)
	}
}

func (s *Server) setSnapshotHeader(w http.ResponseWriter, r *http.Request) {
	if cat, err := s.service.Snapshot(r.Context()); err == nil {
		w.Header().Set(mw.SnapshotHeader, cat.ID.String())
	}
}

// pathParam returns a decoded chi URL parameter. chi matches on the raw
// path when it differs from the decoded one, so escapes such as %2F arrive
// undecoded; a malformed escape is returned as is.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
