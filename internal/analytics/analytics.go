// Package analytics computes historical indicators for a symbol from the
// provider's daily close history: moving averages, annualized volatility
// and percent change over the requested window.
package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/coding-mage/StockVibe/internal/domain"
)

const (
	shortWindow    = 5
	longWindow     = 20
	tradingDays    = 252
	historyTimeout = 15 * time.Second
)

// Report is the analytics payload for one symbol.
type Report struct {
	Symbol        string   `json:"symbol"`
	LastPrice     float64  `json:"last_price"`
	MAShort       *float64 `json:"ma_short"`
	MALong        *float64 `json:"ma_long"`
	Volatility    *float64 `json:"volatility_annualized"`
	PercentChange *float64 `json:"percent_change_period"`
	History       History  `json:"history"`
}

// History is the raw close series behind the report.
type History struct {
	Labels []string  `json:"labels"`
	Prices []float64 `json:"prices"`
}

// Service fetches history and derives indicators. Concurrent requests for
// the same symbol and window collapse into one upstream fetch.
type Service struct {
	history domain.HistoryProvider
	group   singleflight.Group
}

// NewService creates an analytics service on top of a history provider.
func NewService(history domain.HistoryProvider) *Service {
	return &Service{history: history}
}

// Compute returns the report for symbol over the trailing periodDays.
func (s *Service) Compute(ctx context.Context, symbol string, periodDays int) (*Report, error) {
	key := fmt.Sprintf("%s:%d", symbol, periodDays)
	v, err, _ := s.group.Do(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, historyTimeout)
		defer cancel()

		bars, err := s.history.FetchDailyHistory(fetchCtx, symbol, periodDays)
		if err != nil {
			return nil, fmt.Errorf("fetch history for %s: %w", symbol, err)
		}
		if len(bars) == 0 {
			return nil, fmt.Errorf("%w for symbol: %s", domain.ErrNoHistory, symbol)
		}
		return buildReport(symbol, bars), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Report), nil
}

func buildReport(symbol string, bars []domain.Bar) *Report {
	closes := make([]float64, len(bars))
	labels := make([]string, len(bars))
	for i, bar := range bars {
		closes[i] = round(bar.Close, 4)
		labels[i] = bar.Date.Format("2006-01-02")
	}

	last := closes[len(closes)-1]
	first := closes[0]

	report := &Report{
		Symbol:    symbol,
		LastPrice: round(last, 4),
		History:   History{Labels: labels, Prices: closes},
	}

	if ma := movingAverage(closes, shortWindow); ma != nil {
		report.MAShort = ptr(round(*ma, 4))
	}
	if ma := movingAverage(closes, longWindow); ma != nil {
		report.MALong = ptr(round(*ma, 4))
	}
	if vol := annualizedVolatility(closes); vol != nil {
		report.Volatility = ptr(round(*vol, 6))
	}
	if first != 0 {
		report.PercentChange = ptr(round((last-first)/first*100, 4))
	}

	return report
}

// movingAverage returns the mean of the trailing window, or nil when the
// series is shorter than the window.
func movingAverage(closes []float64, window int) *float64 {
	if len(closes) < window {
		return nil
	}
	var sum float64
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	return ptr(sum / float64(window))
}

// annualizedVolatility is the sample standard deviation of daily returns
// scaled by sqrt(252). Needs at least two returns to be meaningful.
func annualizedVolatility(closes []float64) *float64 {
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	if len(returns) < 2 {
		return nil
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	return ptr(math.Sqrt(variance) * math.Sqrt(tradingDays))
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

func ptr(v float64) *float64 { return &v }
