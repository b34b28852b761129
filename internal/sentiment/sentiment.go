// Package sentiment scores recent news headlines for a symbol.
//
// Headlines come from NewsAPI; polarity is computed locally with a small
// financial-news lexicon. Results are cached because headline sentiment
// moves much slower than prices.
package sentiment

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
	defaultBaseURL  = "https://newsapi.org/v2/everything"
	requestTimeout  = 10 * time.Second
	positiveCutoff  = 0.1
	negativeCutoff  = -0.1
	defaultCacheTTL = 5 * time.Minute
)

// Cache is an optional response cache; nil disables caching.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, payload string, ttl time.Duration)
}

// Report summarizes headline sentiment for one symbol.
type Report struct {
	Symbol           string  `json:"symbol"`
	Count            int     `json:"count"`
	AverageSentiment float64 `json:"average_sentiment"`
	Summary          string  `json:"summary"`
	MostPositive     string  `json:"most_positive,omitempty"`
	MostNegative     string  `json:"most_negative,omitempty"`
}

// Service fetches headlines and scores them.
type Service struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	cache      Cache
	cacheTTL   time.Duration
}

// NewService creates a sentiment service. cache may be nil.
func NewService(apiKey string, cache Cache) *Service {
	return &Service{
		httpClient: &http.Client{Timeout: requestTimeout},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		cache:      cache,
		cacheTTL:   defaultCacheTTL,
	}
}

type newsResponse struct {
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

// Analyze fetches up to limit recent headlines about symbol and scores
// them.
func (s *Service) Analyze(ctx context.Context, symbol string, limit int) (*Report, error) {
	cacheKey := fmt.Sprintf("%s:%d", symbol, limit)
	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, cacheKey); ok {
			metrics.APICacheRequests.WithLabelValues("news-sentiment", "hit").Inc()
			var report Report
			if err := json.Unmarshal([]byte(payload), &report); err == nil {
				return &report, nil
			}
		}
		metrics.APICacheRequests.WithLabelValues("news-sentiment", "miss").Inc()
	}

	headlines, err := s.fetchHeadlines(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}

	report := scoreHeadlines(symbol, headlines)

	if s.cache != nil {
		if payload, err := json.Marshal(report); err == nil {
			s.cache.Set(ctx, cacheKey, string(payload), s.cacheTTL)
		}
	}

	return report, nil
}

func (s *Service) fetchHeadlines(ctx context.Context, symbol string, limit int) ([]string, error) {
	query := url.Values{
		"q":        {symbol},
		"sortBy":   {"publishedAt"},
		"language": {"en"},
		"pageSize": {fmt.Sprint(limit)},
		"apiKey":   {s.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build news request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch news for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news API returned status %d", resp.StatusCode)
	}

	var parsed newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}

	headlines := make([]string, 0, len(parsed.Articles))
	for _, article := range parsed.Articles {
		if article.Title != "" {
			headlines = append(headlines, article.Title)
		}
	}
	return headlines, nil
}

func scoreHeadlines(symbol string, headlines []string) *Report {
	report := &Report{Symbol: symbol, Count: len(headlines), Summary: "neutral"}
	if len(headlines) == 0 {
		return report
	}

	var sum float64
	best, worst := 0, 0
	scores := make([]float64, len(headlines))
	for i, headline := range headlines {
		scores[i] = Score(headline)
		sum += scores[i]
		if scores[i] > scores[best] {
			best = i
		}
		if scores[i] < scores[worst] {
			worst = i
		}
	}

	report.AverageSentiment = sum / float64(len(headlines))
	report.MostPositive = headlines[best]
	report.MostNegative = headlines[worst]

	switch {
	case report.AverageSentiment > positiveCutoff:
		report.Summary = "positive"
	case report.AverageSentiment < negativeCutoff:
		report.Summary = "negative"
	}

	return report
}
