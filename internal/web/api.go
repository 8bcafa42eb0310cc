package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) apiFeatured(w http.ResponseWriter, r *http.Request) {
	item, ok := s.catalog.Featured()
	if !ok {
		writeError(w, http.StatusNotFound, "no featured title")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) apiRows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rows())
}

// apiTitles filters by exact category when one is given, otherwise by the
// free-text query q. Neither means the whole catalog.
func (s *Server) apiTitles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Has("category") {
		writeJSON(w, http.StatusOK, s.catalog.ByCategory(query.Get("category")))
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.Search(query.Get("q")))
}

func (s *Server) apiTitle(w http.ResponseWriter, r *http.Request) {
	item, ok := s.catalog.ByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "title not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}
