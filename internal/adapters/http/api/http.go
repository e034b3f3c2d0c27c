// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/devbracket/internal/adapters/repository"
	service "github.com/okian/devbracket/internal/app"
	"github.com/okian/devbracket/internal/domain/cohort"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Analyze builds (or finds) the report for an uploaded dataset.
	Analyze(ctx context.Context, up service.Upload) (service.Result, error)

	// Read operations expose stored reports.
	Report(ctx context.Context, id string) (repository.Record, error)
	Reports(ctx context.Context) ([]repository.Record, error)
	User(ctx context.Context, reportID, userID string) (*cohort.UserReport, error)
}

const defaultMaxUploadBytes = 32 << 20

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxUploadBytes caps request bodies of POST /reports.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.reportsHandler.maxUploadBytes = n
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	reportsHandler *ReportsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		reportsHandler: NewReportsHandler(deps, defaultMaxUploadBytes),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /reports", MetricsMiddleware(s.reportsHandler.HandleCreate, "reports_create"))
	mux.HandleFunc("GET /reports", MetricsMiddleware(s.reportsHandler.HandleList, "reports_list"))
	mux.HandleFunc("GET /reports/{id}", MetricsMiddleware(s.reportsHandler.HandleGet, "reports_get"))
	mux.HandleFunc("GET /reports/{id}/users/{user}", MetricsMiddleware(s.reportsHandler.HandleUser, "reports_user"))
}
