// Package web provides the JSON HTTP surface for the ingest pipeline.
// The cataloger-facing UI lives elsewhere; these endpoints are its
// backend and the integration point for batch tooling.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/digilib-tools/arkingest/internal/config"
	"github.com/digilib-tools/arkingest/internal/core"
)

// Server is the HTTP server for the ingest service.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a Server around service using cfg for listener and
// limit settings.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/api/healthz", s.handleHealth)

	s.router.Route("/api/imports", func(r chi.Router) {
		r.Post("/", s.handleCreateImport)
		r.Get("/", s.handleListImports)
		r.Get("/{importID}", s.handleGetImport)
		r.Post("/{importID}/start", s.handleStartImport)
		r.Post("/{importID}/cancel", s.handleCancelImport)
	})

	s.router.Post("/api/retractions", s.handleRetract)
}

// Start begins listening. Blocks until the server stops.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
