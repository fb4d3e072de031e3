package api

import (
	"net/http"

	"github.com/okian/futdash/internal/domain/dashboard"
)

// handleFilters handles GET /filters.
func (s *Server) handleFilters(w http.ResponseWriter, _ *http.Request) {
	rows, _, _ := s.snapshot()
	writeJSON(w, http.StatusOK, dashboard.Options(rows))
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	rows, loadedAt, _ := s.snapshot()
	stats := dashboard.Summarize(rows)
	stats.LoadedAt = loadedAt
	stats.Source = s.sourceName
	writeJSON(w, http.StatusOK, stats)
}

// handleReload handles POST /reload and answers with the new stats.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	if err := s.Reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "reload_failed", WrapKind(op, ErrReload, err))
		return
	}
	s.handleStats(w, r)
}
