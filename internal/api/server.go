// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It is the composition root for the chi router.
  - Only this package and cmd/api import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/bizdesk/internal/account"
	"github.com/taibuivan/bizdesk/internal/auth"
	"github.com/taibuivan/bizdesk/internal/platform/config"
	"github.com/taibuivan/bizdesk/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all HTTP handler sets mounted by [NewServer].
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus exposition format on /metrics.
	Metrics http.Handler

	// Auth handles login, refresh, logout and token verification.
	Auth *auth.Handler

	// Account serves the authenticated caller's profile.
	Account *account.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. Background middleware goroutines stop with ctx.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.ClientIP(cfg.Server.TrustedProxies))
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery(log))
	r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
	r.Use(middleware.RateLimit(ctx, cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))
	r.Use(middleware.CORS(cfg, cfg.ExtraOrigins))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticate(verifier))
			protected.Mount("/account", h.Account.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           r,
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
		},
	}
}

// Handler exposes the root router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
