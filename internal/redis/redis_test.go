package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coding-mage/StockVibe/internal/domain"
)

func testClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestNewClient_ConnectsAndPings(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestPriceStore_RoundTrip(t *testing.T) {
	client, _ := testClient(t)
	store := NewPriceStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.SetLatest(ctx, "AAPL", 150.25, 1700000000))

	point, err := store.GetLatest(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", point.Symbol)
	assert.Equal(t, 150.25, point.Price)
	assert.Equal(t, int64(1700000000), point.TS)
}

func TestPriceStore_MissingSymbol(t *testing.T) {
	client, _ := testClient(t)
	store := NewPriceStore(client, time.Minute)

	_, err := store.GetLatest(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPriceStore_EntriesExpire(t *testing.T) {
	client, mr := testClient(t)
	store := NewPriceStore(client, 10*time.Second)
	ctx := context.Background()

	require.NoError(t, store.SetLatest(ctx, "AAPL", 150.25, 1700000000))
	mr.FastForward(11 * time.Second)

	_, err := store.GetLatest(ctx, "AAPL")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResponseCache_RoundTripAndMiss(t *testing.T) {
	client, _ := testClient(t)
	cache := NewResponseCache(client, "search")
	ctx := context.Background()

	_, ok := cache.Get(ctx, "apple")
	assert.False(t, ok)

	cache.Set(ctx, "apple", `{"count":1}`, time.Minute)
	payload, ok := cache.Get(ctx, "apple")
	require.True(t, ok)
	assert.Equal(t, `{"count":1}`, payload)
}

func TestResponseCache_PrefixesAreIsolated(t *testing.T) {
	client, _ := testClient(t)
	search := NewResponseCache(client, "search")
	news := NewResponseCache(client, "news")
	ctx := context.Background()

	search.Set(ctx, "apple", "a", time.Minute)

	_, ok := news.Get(ctx, "apple")
	assert.False(t, ok)
}
