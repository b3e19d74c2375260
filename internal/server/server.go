// Package server provides the HTTP API for Shepherd.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hyperjump/shepherd/internal/config"
	"github.com/hyperjump/shepherd/internal/guidance"
	"github.com/hyperjump/shepherd/internal/retrieval"
	"github.com/hyperjump/shepherd/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the HTTP server for the Shepherd API.
type Server struct {
	orchestrator *guidance.Orchestrator
	notifier     *guidance.Notifier
	store        storage.Store
	retriever    *retrieval.Service
	config       *config.Config
	logger       *zap.Logger
	server       *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	orchestrator *guidance.Orchestrator,
	notifier *guidance.Notifier,
	store storage.Store,
	retriever *retrieval.Service,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		orchestrator: orchestrator,
		notifier:     notifier,
		store:        store,
		retriever:    retriever,
		config:       cfg,
		logger:       logger,
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(middleware.Compress(5))

		r.Post("/api/sessions", s.handleCreateSession)
		r.Post("/api/chat", s.handleChat)
		r.Get("/api/chat/{sessionID}", s.handleHistory)
		r.Get("/api/status", s.handleStatus)
		r.Get("/health", s.handleHealth)
		r.Handle("/metrics", promhttp.Handler())
	})

	// The stream stays open until the client leaves, so it runs outside the
	// request timeout and the compressing writer.
	r.Get("/api/stream/{sessionID}", s.handleStream)

	return r
}

func (s *Server) allowedOrigins() []string {
	if len(s.config.Server.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.config.Server.AllowedOrigins
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.routes(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
