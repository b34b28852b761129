package domain

import (
	"context"
	"time"
)

// QuoteProvider is the external source of latest price data for a symbol.
// Implementations may be slow (network call); callers bound every call with
// a context deadline. Failures are opaque at this boundary - network error,
// timeout and unknown symbol are indistinguishable and all map to a
// null-price update for that tick.
type QuoteProvider interface {
	FetchLatestPrice(ctx context.Context, symbol string) (float64, error)
}

// HistoryProvider returns daily close history for a symbol, oldest first.
type HistoryProvider interface {
	FetchDailyHistory(ctx context.Context, symbol string, days int) ([]Bar, error)
}

// Bar is one daily candle reduced to what analytics needs.
type Bar struct {
	Date  time.Time
	Close float64
}
