// Package api exposes the trade journal over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/journal"
)

// Server serves the journal API.
type Server struct {
	server *http.Server
	store  *journal.Store
	logger *zap.Logger

	uuid        string
	name        string
	startTime   time.Time
	recentLimit int
	now         func() time.Time
}

// NewServer creates a Server for store. instanceID identifies this process in
// /api/status and in storage writes.
func NewServer(cfg config.Config, store *journal.Store, instanceID string, logger *zap.Logger) *Server {
	s := &Server{
		store:       store,
		logger:      logger.Named("api-server"),
		uuid:        instanceID,
		name:        cfg.Server.Name,
		startTime:   time.Now(),
		recentLimit: cfg.Journal.RecentLimit,
		now:         time.Now,
	}
	if s.recentLimit <= 0 {
		s.recentLimit = 5
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.routes(cfg.Server),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) routes(cfg config.Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(newCORS(cfg.AllowedOrigins).Handler)
	if cfg.RateLimit > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.healthHandler)
		r.Get("/status", s.statusHandler)

		r.Route("/trades", func(r chi.Router) {
			r.Get("/", s.listTrades)
			r.Post("/", s.createTrade)
			r.Delete("/", s.clearTrades)

			r.Get("/recent", s.recentTrades)
			r.Get("/export", s.exportTrades)
			r.Post("/import", s.importTrades)
			r.Post("/reload", s.reloadTrades)

			r.Get("/{id}", s.getTrade)
			r.Patch("/{id}", s.updateTrade)
			r.Delete("/{id}", s.deleteTrade)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/", s.statsHandler)
			r.Get("/daily", s.dailyHandler)
			r.Get("/today", s.todayHandler)
		})

		r.Get("/calendar", s.calendarHandler)
	})

	return r
}

// Run listens until Stop is called. It returns nil after a graceful stop.
func (s *Server) Run() error {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("API server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}
