// Package api serves the derived player table as a filterable scatter API.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/okian/futdash/internal/domain/model"
	"github.com/okian/futdash/pkg/logger"
)

// Source loads the derived table the server answers from.
type Source interface {
	Load(ctx context.Context) ([]model.DerivedRow, error)
}

// Server holds an in-memory snapshot of the derived table and its routes.
type Server struct {
	source     Source
	sourceName string
	logger     logger.Logger

	mu       sync.RWMutex
	rows     []model.DerivedRow
	loaded   bool
	loadedAt time.Time
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSourceName sets the table name reported by /stats.
func WithSourceName(name string) Option {
	return func(s *Server) { s.sourceName = name }
}

// NewServer creates a server answering from source. Call Reload to load data.
func NewServer(source Source, opts ...Option) *Server {
	s := &Server{source: source}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /players", MetricsMiddleware(s.handlePlayers, "players"))
	mux.HandleFunc("GET /filters", MetricsMiddleware(s.handleFilters, "filters"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.handleStats, "stats"))
	mux.HandleFunc("POST /reload", MetricsMiddleware(s.handleReload, "reload"))
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.handleHealth, "healthz"))
	mux.Handle("GET /metrics", MetricsHandler())
}

// Reload replaces the snapshot with a fresh load. A failed load keeps the previous snapshot.
func (s *Server) Reload(ctx context.Context) error {
	rows, err := s.source.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "reload failed", logger.Error(err))
		return err
	}
	s.mu.Lock()
	s.rows = rows
	s.loaded = true
	s.loadedAt = time.Now().UTC()
	s.mu.Unlock()

	s.logger.Info(ctx, "derived table loaded", logger.Int("rows", len(rows)))
	return nil
}

// snapshot returns the current rows. The slice must not be modified.
func (s *Server) snapshot() ([]model.DerivedRow, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows, s.loadedAt, s.loaded
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
