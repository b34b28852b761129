package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/coding-mage/StockVibe/internal/domain"
	"github.com/coding-mage/StockVibe/internal/metrics"
)

const defaultFetchTimeout = 4 * time.Second

// Directory is the scheduler's view of the subscription registry.
type Directory interface {
	Symbols() []string
	Subscribers(symbol string) []domain.Conn
	Unsubscribe(conn domain.Conn)
}

// PriceSink receives each successfully fetched price. Used to keep the
// latest-price snapshot store warm; may be nil.
type PriceSink interface {
	SetLatest(ctx context.Context, symbol string, price float64, ts int64) error
}

// Scheduler runs the recurring poll loop. One long-lived goroutine owns
// the tick cycle; per-symbol fetches fan out into short-lived goroutines
// bounded by fetchTimeout so one slow symbol cannot delay the others.
type Scheduler struct {
	directory    Directory
	provider     domain.QuoteProvider
	sink         PriceSink
	clock        clockwork.Clock
	interval     time.Duration
	fetchTimeout time.Duration
}

// NewScheduler creates a scheduler polling every interval. sink may be nil.
func NewScheduler(directory Directory, provider domain.QuoteProvider, sink PriceSink, clock clockwork.Clock, interval time.Duration) *Scheduler {
	fetchTimeout := defaultFetchTimeout
	if interval < fetchTimeout {
		fetchTimeout = interval
	}
	return &Scheduler{
		directory:    directory,
		provider:     provider,
		sink:         sink,
		clock:        clock,
		interval:     interval,
		fetchTimeout: fetchTimeout,
	}
}

// Run executes the poll loop until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("Scheduler starting", "interval", s.interval)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped")
			return
		case <-ticker.Chan():
			s.tick(ctx)
		}
	}
}

// symbolResult pairs one symbol with its marshaled price update for a tick.
type symbolResult struct {
	symbol string
	frame  []byte
}

// tick is one full poll cycle. Recovers any panic so a single bad tick can
// never kill the loop.
func (s *Scheduler) tick(ctx context.Context) {
	start := s.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Scheduler tick panic recovered", "panic", r)
			metrics.SchedulerPanicsTotal.Inc()
		}
		metrics.SchedulerTicksTotal.Inc()
		metrics.SchedulerTickDuration.Observe(s.clock.Since(start).Seconds())
	}()

	symbols := s.directory.Symbols()
	if len(symbols) == 0 {
		return
	}

	for _, result := range s.fetchAll(ctx, symbols) {
		s.deliver(result.symbol, result.frame)
	}
}

// fetchAll fetches one price per symbol concurrently. A failed fetch yields
// a null-price frame; it never aborts the tick or delays other symbols
// beyond the shared fetch timeout.
func (s *Scheduler) fetchAll(ctx context.Context, symbols []string) []symbolResult {
	results := make([]symbolResult, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			results[i] = symbolResult{symbol: symbol, frame: s.fetchOne(ctx, symbol)}
		}(i, symbol)
	}
	wg.Wait()

	return results
}

// fetchOne produces the marshaled price frame for one symbol.
func (s *Scheduler) fetchOne(ctx context.Context, symbol string) []byte {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	ts := s.clock.Now().Unix()

	var priceValue *float64
	price, err := s.provider.FetchLatestPrice(fetchCtx, symbol)
	if err != nil {
		slog.Warn("Quote fetch failed", "symbol", symbol, "error", err)
	} else {
		priceValue = &price
		s.recordLatest(ctx, symbol, price, ts)
	}

	frame, err := json.Marshal(domain.NewPriceUpdate(symbol, priceValue, ts))
	if err != nil {
		slog.Error("Failed to marshal price update", "symbol", symbol, "error", err)
		return nil
	}
	return frame
}

// recordLatest writes the fetched price to the snapshot sink, best effort.
func (s *Scheduler) recordLatest(ctx context.Context, symbol string, price float64, ts int64) {
	if s.sink == nil {
		return
	}
	if err := s.sink.SetLatest(ctx, symbol, price, ts); err != nil {
		slog.Warn("Failed to record latest price", "symbol", symbol, "error", err)
	}
}

// deliver pushes one symbol's frame to every subscriber. A failed send is
// an implicit disconnect: the connection is unsubscribed and closed, and
// delivery continues to the remaining subscribers.
func (s *Scheduler) deliver(symbol string, frame []byte) {
	if frame == nil {
		return
	}

	for _, conn := range s.directory.Subscribers(symbol) {
		if err := conn.Send(frame); err != nil {
			slog.Warn("Dropping unreachable subscriber",
				"symbol", symbol,
				"conn_id", conn.ID().String(),
				"error", err,
			)
			metrics.SchedulerDeliveryFailures.Inc()
			metrics.WebSocketSlowClientsEvicted.Inc()
			s.directory.Unsubscribe(conn)
			conn.Close()
			continue
		}
		metrics.SchedulerUpdatesDelivered.Inc()
	}
}
