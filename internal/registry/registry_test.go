package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coding-mage/StockVibe/internal/domain"
)

// fakeConn is a minimal domain.Conn for registry tests.
type fakeConn struct {
	id uuid.UUID
}

func newFakeConn() *fakeConn            { return &fakeConn{id: uuid.New()} }
func (f *fakeConn) ID() uuid.UUID       { return f.id }
func (f *fakeConn) Send(_ []byte) error { return nil }
func (f *fakeConn) Close()              {}

// checkConsistency asserts the bidirectional invariant: every byConn entry
// appears in exactly its own symbol's set and nowhere else.
func checkConsistency(t *testing.T, r *Registry) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()

	for conn, symbol := range r.byConn {
		set, ok := r.bySymbol[symbol]
		require.True(t, ok, "symbol %q missing from bySymbol", symbol)
		_, member := set[conn]
		require.True(t, member, "conn missing from its symbol set")

		for other, otherSet := range r.bySymbol {
			if other == symbol {
				continue
			}
			_, inOther := otherSet[conn]
			require.False(t, inOther, "conn appears in more than one symbol set")
		}
	}
	for symbol, set := range r.bySymbol {
		require.NotEmpty(t, set, "empty set retained for %q", symbol)
		for conn := range set {
			require.Equal(t, symbol, r.byConn[conn])
		}
	}
}

func TestSubscribe_AddsConnection(t *testing.T) {
	r := New()
	conn := newFakeConn()

	r.Subscribe(conn, "AAPL")

	assert.ElementsMatch(t, []string{"AAPL"}, r.Symbols())
	assert.Equal(t, []domain.Conn{conn}, r.Subscribers("AAPL"))
	symbol, ok := r.SymbolOf(conn)
	require.True(t, ok)
	assert.Equal(t, "AAPL", symbol)
	checkConsistency(t, r)
}

func TestSubscribe_Idempotent(t *testing.T) {
	r := New()
	conn := newFakeConn()

	r.Subscribe(conn, "AAPL")
	r.Subscribe(conn, "AAPL")

	assert.Len(t, r.Subscribers("AAPL"), 1)
	assert.Len(t, r.Symbols(), 1)
	checkConsistency(t, r)
}

func TestSubscribe_ReplacesPreviousSymbol(t *testing.T) {
	r := New()
	conn := newFakeConn()

	r.Subscribe(conn, "AAPL")
	r.Subscribe(conn, "MSFT")

	assert.Empty(t, r.Subscribers("AAPL"))
	assert.Equal(t, []domain.Conn{conn}, r.Subscribers("MSFT"))
	assert.ElementsMatch(t, []string{"MSFT"}, r.Symbols(), "empty AAPL set should be pruned")
	checkConsistency(t, r)
}

func TestUnsubscribe_RemovesFromBothMaps(t *testing.T) {
	r := New()
	conn := newFakeConn()
	other := newFakeConn()

	r.Subscribe(conn, "AAPL")
	r.Subscribe(other, "AAPL")
	r.Unsubscribe(conn)

	assert.Equal(t, []domain.Conn{other}, r.Subscribers("AAPL"))
	_, ok := r.SymbolOf(conn)
	assert.False(t, ok)
	checkConsistency(t, r)
}

func TestUnsubscribe_NoSubscriptionIsNoop(t *testing.T) {
	r := New()
	conn := newFakeConn()

	r.Unsubscribe(conn)
	r.Subscribe(conn, "AAPL")
	r.Unsubscribe(conn)
	r.Unsubscribe(conn)

	assert.Empty(t, r.Symbols())
	checkConsistency(t, r)
}

func TestSymbols_DistinctWithSubscribers(t *testing.T) {
	r := New()
	a, b, c := newFakeConn(), newFakeConn(), newFakeConn()

	r.Subscribe(a, "AAPL")
	r.Subscribe(b, "AAPL")
	r.Subscribe(c, "MSFT")

	assert.ElementsMatch(t, []string{"AAPL", "MSFT"}, r.Symbols())
	assert.Len(t, r.Subscribers("AAPL"), 2)
}

func TestSubscribers_ReturnsCopy(t *testing.T) {
	r := New()
	conn := newFakeConn()
	r.Subscribe(conn, "AAPL")

	snapshot := r.Subscribers("AAPL")
	r.Unsubscribe(conn)

	// The earlier snapshot is unaffected by later mutation.
	assert.Len(t, snapshot, 1)
	assert.Empty(t, r.Subscribers("AAPL"))
}

func TestRegistry_ConcurrentChurnKeepsInvariant(t *testing.T) {
	r := New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		conn := newFakeConn()
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Subscribe(conn, fmt.Sprintf("SYM%d", (n+j)%5))
				if j%3 == 0 {
					r.Unsubscribe(conn)
				}
			}
			r.Unsubscribe(conn)
		}(i)
	}
	wg.Wait()

	assert.Empty(t, r.Symbols())
	checkConsistency(t, r)
}
