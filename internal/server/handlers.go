package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/coding-mage/StockVibe/internal/domain"
	apperrors "github.com/coding-mage/StockVibe/internal/errors"
	"github.com/coding-mage/StockVibe/internal/search"
	"github.com/coding-mage/StockVibe/internal/session"
)

const (
	defaultAnalyticsPeriodDays = 60
	maxAnalyticsPeriodDays     = 365
	defaultSentimentLimit      = 10
	maxSentimentLimit          = 50
	directQuoteTimeout         = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Browser clients connect cross-origin; CORS covers REST
	},
}

// handleWebSocket upgrades the connection and runs its session until the
// client disconnects. The session registers itself with the registry only
// when the client sends a subscribe command.
func (s *Server) handleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the failure response.
		slog.Warn("WebSocket upgrade failed", "error", err)
		return nil
	}

	sess := session.New(conn, s.deps.Registry, s.deps.Clock)
	s.trackSession(sess)
	defer s.untrackSession(sess)

	// Blocks until the transport disconnects.
	sess.Run()

	return nil
}

func (s *Server) handleCurated(c echo.Context) error {
	return c.JSON(http.StatusOK, search.Curated())
}

// handleQuote serves the latest price for one symbol over REST. It prefers
// the scheduler-maintained snapshot and falls back to a direct provider
// call for symbols nobody is streaming.
func (s *Server) handleQuote(c echo.Context) error {
	symbol := c.Param("symbol")
	ctx := c.Request().Context()

	if s.deps.Snapshots != nil {
		point, err := s.deps.Snapshots.GetLatest(ctx, symbol)
		if err == nil {
			return c.JSON(http.StatusOK, point)
		}
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("Snapshot lookup failed", "symbol", symbol, "error", err)
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, directQuoteTimeout)
	defer cancel()

	price, err := s.deps.Provider.FetchLatestPrice(fetchCtx, symbol)
	if err != nil {
		return apperrors.UpstreamError("failed to fetch quote for "+symbol, err).
			WithContext("symbol", symbol)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"symbol": symbol,
		"price":  price,
		"ts":     time.Now().Unix(),
	})
}

func (s *Server) handleSearch(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return apperrors.ValidationError("missing query parameter q")
	}
	if s.config.FinnhubAPIKey == "" {
		return apperrors.UnavailableError("FINNHUB_API_KEY not set")
	}

	result, err := s.deps.Search.Search(c.Request().Context(), q)
	if err != nil {
		return apperrors.UpstreamError("symbol search failed", err).
			WithContext("query", q)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleAnalytics(c echo.Context) error {
	symbol := c.Param("symbol")

	periodDays := defaultAnalyticsPeriodDays
	if raw := c.QueryParam("period_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxAnalyticsPeriodDays {
			return apperrors.ValidationError(
				fmt.Sprintf("period_days must be between 1 and %d", maxAnalyticsPeriodDays))
		}
		periodDays = parsed
	}

	report, err := s.deps.Analytics.Compute(c.Request().Context(), symbol, periodDays)
	if errors.Is(err, domain.ErrNoHistory) {
		return apperrors.NotFoundError("no historical data available for symbol: " + symbol)
	}
	if err != nil {
		return apperrors.UpstreamError("analytics failed for "+symbol, err).
			WithContext("symbol", symbol)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleNewsSentiment(c echo.Context) error {
	symbol := c.Param("symbol")
	if s.config.NewsAPIKey == "" {
		return apperrors.UnavailableError("NEWSAPI_KEY not set")
	}

	limit := defaultSentimentLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxSentimentLimit {
			return apperrors.ValidationError(
				fmt.Sprintf("limit must be between 1 and %d", maxSentimentLimit))
		}
		limit = parsed
	}

	report, err := s.deps.Sentiment.Analyze(c.Request().Context(), symbol, limit)
	if err != nil {
		return apperrors.UpstreamError("news sentiment failed for "+symbol, err).
			WithContext("symbol", symbol)
	}
	return c.JSON(http.StatusOK, report)
}
