package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"

	"github.com/coding-mage/StockVibe/internal/domain"
)

// YahooBackend fetches quotes and daily history from Yahoo Finance.
type YahooBackend struct{}

// NewYahooBackend creates the Yahoo Finance backend.
func NewYahooBackend() *YahooBackend {
	return &YahooBackend{}
}

// FetchLatestPrice returns the regular market price for symbol. finance-go
// has no context support, so the blocking call runs in its own goroutine
// and is abandoned when ctx expires.
func (y *YahooBackend) FetchLatestPrice(ctx context.Context, symbol string) (float64, error) {
	type result struct {
		price float64
		err   error
	}
	ch := make(chan result, 1)

	go func() {
		q, err := quote.Get(symbol)
		if err != nil {
			ch <- result{err: fmt.Errorf("yahoo quote for %s: %w", symbol, err)}
			return
		}
		if q == nil {
			ch <- result{err: fmt.Errorf("yahoo quote for %s: no data", symbol)}
			return
		}
		ch <- result{price: q.RegularMarketPrice}
	}()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case r := <-ch:
		return r.price, r.err
	}
}

// FetchDailyHistory returns up to days daily closes for symbol, oldest
// first.
func (y *YahooBackend) FetchDailyHistory(ctx context.Context, symbol string, days int) ([]domain.Bar, error) {
	type result struct {
		bars []domain.Bar
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		end := time.Now()
		start := end.AddDate(0, 0, -days)

		iter := chart.Get(&chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		})

		var bars []domain.Bar
		for iter.Next() {
			b := iter.Bar()
			bars = append(bars, domain.Bar{
				Date:  time.Unix(int64(b.Timestamp), 0).UTC(),
				Close: b.Close.InexactFloat64(),
			})
		}
		if err := iter.Err(); err != nil {
			ch <- result{err: fmt.Errorf("yahoo history for %s: %w", symbol, err)}
			return
		}
		ch <- result{bars: bars}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.bars, r.err
	}
}

var _ Backend = (*YahooBackend)(nil)
