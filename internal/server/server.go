// Package server assembles the HTTP surface: the gin engine, middleware
// chain and every route group.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"dashboard/internal/activity"
	"dashboard/internal/config"
	"dashboard/internal/folders"
	"dashboard/internal/session"
	"dashboard/internal/storage"
	"dashboard/internal/users"
)

// HealthChecker reports the state of a backing service
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

// Deps holds the services the HTTP layer is built from. Storage may be nil,
// in which case the file routes answer 503. Activity may be nil, in which
// case nothing is recorded and /api/activity is not mounted.
type Deps struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        HealthChecker
	Storage   storage.Service
	Users     users.Service
	Sessions  *session.Manager
	Validator *session.Validator
	Folders   *folders.Service
	Activity  *activity.Service
}

// Server holds the dependencies for the HTTP server
type Server struct {
	deps Deps
}

// New creates a server from its dependencies
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Server{deps: deps}
}

// HTTPServer returns an http.Server configured from the application config
func (s *Server) HTTPServer() *http.Server {
	cfg := s.deps.Config
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           s.RegisterRoutes(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
