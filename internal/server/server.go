// Package server wires the HTTP surface: the WebSocket subscribe endpoint
// and the stateless REST endpoints that share the quote provider.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/coding-mage/StockVibe/internal/analytics"
	"github.com/coding-mage/StockVibe/internal/config"
	"github.com/coding-mage/StockVibe/internal/domain"
	apperrors "github.com/coding-mage/StockVibe/internal/errors"
	"github.com/coding-mage/StockVibe/internal/redis"
	"github.com/coding-mage/StockVibe/internal/registry"
	"github.com/coding-mage/StockVibe/internal/search"
	"github.com/coding-mage/StockVibe/internal/sentiment"
	"github.com/coding-mage/StockVibe/internal/session"
)

// AnalyticsService computes historical indicators for a symbol.
type AnalyticsService interface {
	Compute(ctx context.Context, symbol string, periodDays int) (*analytics.Report, error)
}

// SentimentService scores recent news headlines for a symbol.
type SentimentService interface {
	Analyze(ctx context.Context, symbol string, limit int) (*sentiment.Report, error)
}

// SearchService resolves free-text queries to symbol matches.
type SearchService interface {
	Search(ctx context.Context, q string) (*search.Result, error)
}

// PriceSnapshots reads the scheduler-maintained latest-price store.
type PriceSnapshots interface {
	GetLatest(ctx context.Context, symbol string) (redis.PricePoint, error)
}

// Deps collects the server's collaborators. Snapshots, Sentiment, Search
// and Redis are optional.
type Deps struct {
	Registry  *registry.Registry
	Clock     clockwork.Clock
	Provider  domain.QuoteProvider
	Snapshots PriceSnapshots
	Analytics AnalyticsService
	Sentiment SentimentService
	Search    SearchService
	Redis     *goredis.Client
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	deps      Deps
	startTime time.Time

	mu       sync.Mutex
	sessions map[*session.Session]struct{}
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		deps:      deps,
		startTime: time.Now(),
		sessions:  make(map[*session.Session]struct{}),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Server starting", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

// Shutdown stops the HTTP listener and closes every open WebSocket
// session.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)

	s.mu.Lock()
	open := make([]*session.Session, 0, len(s.sessions))
	for sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()

	for _, sess := range open {
		sess.Close()
	}
	if len(open) > 0 {
		slog.Info("Closed open WebSocket sessions", "count", len(open))
	}

	return err
}

func (s *Server) trackSession(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess] = struct{}{}
}

func (s *Server) untrackSession(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess)
}
