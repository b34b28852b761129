// Package search resolves free-text queries to symbols via Finnhub and
// serves the static curated list.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/coding-mage/StockVibe/internal/metrics"
)

const (
	defaultBaseURL  = "https://finnhub.io/api/v1/search"
	requestTimeout  = 10 * time.Second
	defaultCacheTTL = 10 * time.Minute
)

// Cache is an optional response cache; nil disables caching.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, payload string, ttl time.Duration)
}

// Match is one search result.
type Match struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Currency    string `json:"currency"`
}

// Result is the search response payload.
type Result struct {
	Count   int     `json:"count"`
	Results []Match `json:"results"`
}

// Service queries Finnhub symbol search.
type Service struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	cache      Cache
	cacheTTL   time.Duration
}

// NewService creates a search service. cache may be nil.
func NewService(apiKey string, cache Cache) *Service {
	return &Service{
		httpClient: &http.Client{Timeout: requestTimeout},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		cache:      cache,
		cacheTTL:   defaultCacheTTL,
	}
}

type finnhubResponse struct {
	Result []struct {
		Symbol      string `json:"symbol"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Currency    string `json:"currency"`
	} `json:"result"`
}

// Search returns symbol matches for q.
func (s *Service) Search(ctx context.Context, q string) (*Result, error) {
	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, q); ok {
			metrics.APICacheRequests.WithLabelValues("search", "hit").Inc()
			var result Result
			if err := json.Unmarshal([]byte(payload), &result); err == nil {
				return &result, nil
			}
		}
		metrics.APICacheRequests.WithLabelValues("search", "miss").Inc()
	}

	query := url.Values{"q": {q}, "token": {s.apiKey}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search symbols for %q: %w", q, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finnhub returned status %d", resp.StatusCode)
	}

	var parsed finnhubResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &Result{Results: make([]Match, 0, len(parsed.Result))}
	for _, item := range parsed.Result {
		result.Results = append(result.Results, Match(item))
	}
	result.Count = len(result.Results)

	if s.cache != nil {
		if payload, err := json.Marshal(result); err == nil {
			s.cache.Set(ctx, q, string(payload), s.cacheTTL)
		}
	}

	return result, nil
}
