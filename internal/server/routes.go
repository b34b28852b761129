package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	upstreamRatePerSecond = 5
	upstreamRateBurst     = 10
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Live price stream
	s.echo.GET("/ws", s.handleWebSocket)

	// Quote endpoints
	s.echo.GET("/curated", s.handleCurated)
	s.echo.GET("/quote/:symbol", s.handleQuote)
	s.echo.GET("/analytics/:symbol", s.handleAnalytics)

	// Endpoints backed by rate-limited third-party APIs
	limited := newRateLimiter(upstreamRatePerSecond, upstreamRateBurst)
	s.echo.GET("/search", s.handleSearch, limited)
	s.echo.GET("/news-sentiment/:symbol", s.handleNewsSentiment, limited)
}
