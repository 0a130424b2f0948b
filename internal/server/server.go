// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package server exposes the loaded catalog as a read-only JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/akyodex/akyodex/internal/catalog"
	"github.com/akyodex/akyodex/internal/domain"
	"github.com/akyodex/akyodex/internal/library"
)

const (
	requestTimeout    = 30 * time.Second
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 45 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 5 * time.Second

	requestsPerSecond = 50
	requestBurst      = 100
)

// Catalog is the read side used by the handlers.
type Catalog interface {
	Snapshot() *library.Snapshot
	Search(view catalog.ViewState, offset, limit int) (domain.SearchResult, error)
	Show(ctx context.Context, id string) (domain.EntryResult, error)
	Attributes() []string
	Creators() []string
}

// Server wraps the chi router and the http.Server.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	logger     *zap.Logger
}

// New builds the router with its middleware chain.
func New(addr string, cat Catalog, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &handler{catalog: cat, logger: logger}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(rateLimit(rate.NewLimiter(requestsPerSecond, requestBurst)))
	r.Use(chimw.CleanPath)

	r.Get("/healthz", h.health)

	r.Route("/api", func(api chi.Router) {
		api.Get("/akyo", h.list)
		api.Get("/akyo/{id}", h.get)
		api.Get("/attributes", h.attributes)
		api.Get("/creators", h.creators)
	})

	return &Server{
		router: r,
		logger: logger,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
		},
	}
}

// Handler returns the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve %s: %w", s.httpServer.Addr, err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		return nil
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())))
		})
	}
}

func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
