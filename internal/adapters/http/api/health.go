package api

import (
	"net/http"

	"github.com/okian/futdash/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type healthResponse struct {
	Status string `json:"status"`
	Loaded bool   `json:"loaded"`
	Rows   int    `json:"rows"`
}

// handleHealth handles GET /healthz. The server is healthy before the first load.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	rows, _, loaded := s.snapshot()
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Loaded: loaded, Rows: len(rows)})
}

// MetricsHandler serves the futdash Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
