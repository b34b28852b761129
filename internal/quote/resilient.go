package quote

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/coding-mage/StockVibe/internal/domain"
	"github.com/coding-mage/StockVibe/internal/metrics"
)

const (
	breakerFailureThreshold = 5
	breakerOpenDuration     = 30 * time.Second
	breakerProbeRequests    = 1
)

// Resilient wraps a Backend with upstream pacing and a circuit breaker.
// Every distinct subscribed symbol costs one upstream call per tick, so the
// limiter caps total pressure on the data source; the breaker fails fast
// while the upstream is down instead of queueing doomed calls.
type Resilient struct {
	inner   Backend
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewResilient wraps inner. ratePerSecond bounds upstream calls (burst is
// twice the rate, minimum 1).
func NewResilient(inner Backend, ratePerSecond float64) *Resilient {
	burst := int(ratePerSecond * 2)
	if burst < 1 {
		burst = 1
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "quote-provider",
		MaxRequests: breakerProbeRequests,
		Timeout:     breakerOpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed",
				"component", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.CircuitBreakerStateChanges.WithLabelValues(name, to.String()).Inc()
		},
	})

	return &Resilient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		breaker: breaker,
	}
}

func (r *Resilient) FetchLatestPrice(ctx context.Context, symbol string) (float64, error) {
	start := time.Now()

	price, err := r.execute(ctx, func() (any, error) {
		return r.inner.FetchLatestPrice(ctx, symbol)
	})

	metrics.QuoteFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.QuoteFetchesTotal.WithLabelValues("error").Inc()
		return 0, err
	}
	metrics.QuoteFetchesTotal.WithLabelValues("ok").Inc()
	return price.(float64), nil
}

func (r *Resilient) FetchDailyHistory(ctx context.Context, symbol string, days int) ([]domain.Bar, error) {
	bars, err := r.execute(ctx, func() (any, error) {
		return r.inner.FetchDailyHistory(ctx, symbol, days)
	})
	if err != nil {
		return nil, err
	}
	return bars.([]domain.Bar), nil
}

// execute paces the call through the limiter, then runs it under the
// breaker. A limiter wait cut short by ctx counts as a plain error, not a
// breaker failure.
func (r *Resilient) execute(ctx context.Context, op func() (any, error)) (any, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.breaker.Execute(op)
}

var _ Backend = (*Resilient)(nil)
