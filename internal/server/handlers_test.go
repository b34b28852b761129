package server

import (
	"context"
	"fmt"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/coding-mage/StockVibe/internal/analytics"
	"github.com/coding-mage/StockVibe/internal/config"
	"github.com/coding-mage/StockVibe/internal/redis"
	"github.com/coding-mage/StockVibe/internal/registry"
	"github.com/coding-mage/StockVibe/internal/search"
	"github.com/coding-mage/StockVibe/internal/sentiment"
)

// --- Mock implementations ---

type mockProvider struct {
	fetchFn func(ctx context.Context, symbol string) (float64, error)
}

func (m *mockProvider) FetchLatestPrice(ctx context.Context, symbol string) (float64, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, symbol)
	}
	return 0, fmt.Errorf("not implemented")
}

type mockSnapshots struct {
	getLatestFn func(ctx context.Context, symbol string) (redis.PricePoint, error)
}

func (m *mockSnapshots) GetLatest(ctx context.Context, symbol string) (redis.PricePoint, error) {
	if m.getLatestFn != nil {
		return m.getLatestFn(ctx, symbol)
	}
	return redis.PricePoint{}, fmt.Errorf("not implemented")
}

type mockAnalytics struct {
	computeFn func(ctx context.Context, symbol string, periodDays int) (*analytics.Report, error)
}

func (m *mockAnalytics) Compute(ctx context.Context, symbol string, periodDays int) (*analytics.Report, error) {
	if m.computeFn != nil {
		return m.computeFn(ctx, symbol, periodDays)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockSentiment struct {
	analyzeFn func(ctx context.Context, symbol string, limit int) (*sentiment.Report, error)
}

func (m *mockSentiment) Analyze(ctx context.Context, symbol string, limit int) (*sentiment.Report, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, symbol, limit)
	}
	return nil, fmt.Errorf("not implemented")
}

type mockSearch struct {
	searchFn func(ctx context.Context, q string) (*search.Result, error)
}

func (m *mockSearch) Search(ctx context.Context, q string) (*search.Result, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return nil, fmt.Errorf("not implemented")
}

// --- Test helpers ---

type serverOption func(*config.Config, *Deps)

func withoutFinnhubKey() serverOption {
	return func(cfg *config.Config, _ *Deps) { cfg.FinnhubAPIKey = "" }
}

func withoutNewsKey() serverOption {
	return func(cfg *config.Config, _ *Deps) { cfg.NewsAPIKey = "" }
}

func withDeps(override func(*Deps)) serverOption {
	return func(_ *config.Config, deps *Deps) { override(deps) }
}

func newTestServer(t *testing.T, opts ...serverOption) *Server {
	t.Helper()

	cfg := &config.Config{
		Port:           "8080",
		AllowedOrigins: []string{"*"},
		FinnhubAPIKey:  "test-finnhub-key",
		NewsAPIKey:     "test-news-key",
	}
	deps := Deps{
		Registry: registry.New(),
		Clock:    clockwork.NewRealClock(),
		Provider: &mockProvider{},
	}

	for _, opt := range opts {
		opt(cfg, &deps)
	}

	return NewServer(cfg, deps)
}
