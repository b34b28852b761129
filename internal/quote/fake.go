package quote

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/coding-mage/StockVibe/internal/domain"
)

// FakeBackend serves synthetic prices for local development and tests.
// Each symbol gets a deterministic base price that drifts sinusoidally, so
// a dashboard pointed at it shows movement without any upstream calls.
type FakeBackend struct {
	mu        sync.Mutex
	start     time.Time
	failing   map[string]error
	BasePrice float64
}

// NewFakeBackend creates a fake backend with the given base price.
func NewFakeBackend(basePrice float64) *FakeBackend {
	return &FakeBackend{
		start:     time.Now(),
		failing:   make(map[string]error),
		BasePrice: basePrice,
	}
}

// Fail makes subsequent fetches for symbol return err. Passing a nil err
// clears the failure.
func (f *FakeBackend) Fail(symbol string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failing, symbol)
		return
	}
	f.failing[symbol] = err
}

func (f *FakeBackend) FetchLatestPrice(_ context.Context, symbol string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failing[symbol]; err != nil {
		return 0, fmt.Errorf("fake quote for %s: %w", symbol, err)
	}
	elapsed := time.Since(f.start).Seconds()
	return f.priceAt(symbol, elapsed), nil
}

func (f *FakeBackend) FetchDailyHistory(_ context.Context, symbol string, days int) ([]domain.Bar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failing[symbol]; err != nil {
		return nil, fmt.Errorf("fake history for %s: %w", symbol, err)
	}

	bars := make([]domain.Bar, 0, days)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		bars = append(bars, domain.Bar{
			Date:  date,
			Close: f.priceAt(symbol, float64(date.Unix()%86400)),
		})
	}
	return bars, nil
}

// priceAt derives a stable per-symbol price with a slow oscillation.
// Caller must hold f.mu.
func (f *FakeBackend) priceAt(symbol string, t float64) float64 {
	var seed float64
	for _, r := range symbol {
		seed += float64(r)
	}
	base := f.BasePrice + math.Mod(seed, 200)
	return math.Round((base+base*0.01*math.Sin(t/30))*100) / 100
}

var _ Backend = (*FakeBackend)(nil)
