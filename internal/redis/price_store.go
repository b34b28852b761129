package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coding-mage/StockVibe/internal/domain"
)

const priceKeyPrefix = "price:latest:"

// PricePoint is the stored latest-price snapshot for one symbol.
type PricePoint struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	TS     int64   `json:"ts"`
}

// PriceStore keeps the most recent successfully fetched price per symbol.
// The scheduler writes it on every successful fetch; the REST quote
// endpoint reads it to avoid an upstream round trip.
type PriceStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPriceStore creates a price store. Entries expire after ttl so a
// symbol nobody subscribes to anymore does not serve stale prices forever.
func NewPriceStore(rdb *redis.Client, ttl time.Duration) *PriceStore {
	return &PriceStore{rdb: rdb, ttl: ttl}
}

// SetLatest records the latest price for symbol.
func (s *PriceStore) SetLatest(ctx context.Context, symbol string, price float64, ts int64) error {
	point := PricePoint{Symbol: symbol, Price: price, TS: ts}
	data, err := json.Marshal(point)
	if err != nil {
		return fmt.Errorf("failed to marshal price point: %w", err)
	}
	if err := s.rdb.Set(ctx, priceKeyPrefix+symbol, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store price point: %w", err)
	}
	return nil
}

// GetLatest returns the stored snapshot for symbol, or domain.ErrNotFound.
func (s *PriceStore) GetLatest(ctx context.Context, symbol string) (PricePoint, error) {
	data, err := s.rdb.Get(ctx, priceKeyPrefix+symbol).Bytes()
	if errors.Is(err, redis.Nil) {
		return PricePoint{}, domain.ErrNotFound
	}
	if err != nil {
		return PricePoint{}, fmt.Errorf("failed to load price point: %w", err)
	}

	var point PricePoint
	if err := json.Unmarshal(data, &point); err != nil {
		return PricePoint{}, fmt.Errorf("failed to unmarshal price point: %w", err)
	}
	return point, nil
}
