// Package server exposes the holdings pipeline over HTTP.
//
// The server keeps the latest aggregated index in memory and refreshes it
// on a fixed cadence in the background. Requests always serve the last
// good index, so an upstream outage degrades freshness, never
// availability.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/coinvenn/coinvenn/pkg/holdings"
	"github.com/coinvenn/coinvenn/pkg/integrations/coingecko"
	"github.com/coinvenn/coinvenn/pkg/pipeline"
)

// Config holds server construction parameters.
type Config struct {
	Addr            string
	Runner          *pipeline.Runner
	Client          *coingecko.Client
	Roster          []coingecko.RosterEntry
	TopCoins        int
	RefreshInterval time.Duration
	Logger          *log.Logger
}

// Server is the coinvenn HTTP server.
type Server struct {
	router *chi.Mux
	server *http.Server
	runner *pipeline.Runner
	logger *log.Logger

	opts     pipeline.Options
	interval time.Duration

	mu        sync.RWMutex
	index     *holdings.Index
	updatedAt time.Time
}

// New creates a server. It does not fetch anything until [Server.Run] or
// [Server.Refresh] is called.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = time.Hour
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}

	s := &Server{
		router: chi.NewRouter(),
		runner: cfg.Runner,
		logger: cfg.Logger,
		opts: pipeline.Options{
			Roster:   cfg.Roster,
			TopCoins: cfg.TopCoins,
			Client:   cfg.Client,
			Logger:   cfg.Logger,
		},
		interval: cfg.RefreshInterval,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/index", s.handleIndex)
		r.Get("/scene", s.handleScene)
		r.Get("/scene.svg", s.handleSceneSVG)
		r.Post("/refresh", s.handleRefresh)
	})
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run performs an initial refresh, starts the background refresh loop, and
// serves until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		// Start anyway: the loop retries and handlers report 503 until
		// the first snapshot lands.
		s.logger.Error("initial refresh failed", "err", err)
	}

	go s.refreshLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.server.Addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Error("scheduled refresh failed", "err", err)
			}
		}
	}
}

// Refresh fetches a fresh snapshot, aggregates it, and swaps in the new
// index. On failure the previous index stays in place.
func (s *Server) Refresh(ctx context.Context) error {
	opts := s.opts
	opts.Refresh = true

	snap, err := s.runner.Fetch(ctx, opts)
	if err != nil {
		return err
	}
	idx, err := s.runner.Aggregate(ctx, snap, opts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.index = idx
	s.updatedAt = snap.FetchedAt
	s.mu.Unlock()

	s.logger.Info("index refreshed",
		"entities", len(idx.Entities),
		"assets", len(idx.Assets),
		"fetched_at", snap.FetchedAt)
	return nil
}

// currentIndex returns the last good index and its timestamp, or nil when
// no refresh has succeeded yet.
func (s *Server) currentIndex() (*holdings.Index, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index, s.updatedAt
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
