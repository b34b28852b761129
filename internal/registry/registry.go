// Package registry tracks which live connections care about which symbols.
//
// The Registry is the single source of truth for "who wants what": a symbol
// to subscriber-set map and its reverse, kept mutually consistent under one
// mutex. Each connection holds at most one active symbol; re-subscribing
// replaces, never adds.
package registry

import (
	"sync"

	"github.com/coding-mage/StockVibe/internal/domain"
	"github.com/coding-mage/StockVibe/internal/metrics"
)

// Registry maps symbols to subscribed connections and back. All mutation
// and snapshot reads are serialized by a single mutex so the two maps can
// never disagree. The zero value is not usable; call New.
type Registry struct {
	mu       sync.Mutex
	bySymbol map[string]map[domain.Conn]struct{}
	byConn   map[domain.Conn]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		bySymbol: make(map[string]map[domain.Conn]struct{}),
		byConn:   make(map[domain.Conn]string),
	}
}

// Subscribe sets conn's active symbol, replacing any previous subscription.
// Idempotent when conn is already subscribed to symbol. Never fails.
func (r *Registry) Subscribe(conn domain.Conn, symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byConn[conn]
	if ok && prev == symbol {
		return
	}
	if ok {
		r.removeFromSymbol(conn, prev)
	}

	set, ok := r.bySymbol[symbol]
	if !ok {
		set = make(map[domain.Conn]struct{})
		r.bySymbol[symbol] = set
	}
	set[conn] = struct{}{}
	r.byConn[conn] = symbol

	r.publishGauges()
}

// Unsubscribe removes conn from whichever symbol set it belongs to and
// clears its reverse entry. No-op when conn has no subscription.
func (r *Registry) Unsubscribe(conn domain.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	symbol, ok := r.byConn[conn]
	if !ok {
		return
	}
	r.removeFromSymbol(conn, symbol)
	delete(r.byConn, conn)

	r.publishGauges()
}

// Symbols returns the distinct symbols with at least one subscriber, as a
// consistent snapshot. Order is unspecified.
func (r *Registry) Symbols() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	symbols := make([]string, 0, len(r.bySymbol))
	for symbol := range r.bySymbol {
		symbols = append(symbols, symbol)
	}
	return symbols
}

// Subscribers returns a copy of the current subscriber set for symbol.
// The copy lets the broadcaster iterate without holding the registry lock
// across network sends; slight staleness is acceptable.
func (r *Registry) Subscribers(symbol string) []domain.Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.bySymbol[symbol]
	conns := make([]domain.Conn, 0, len(set))
	for conn := range set {
		conns = append(conns, conn)
	}
	return conns
}

// SymbolOf reports conn's current symbol, if any.
func (r *Registry) SymbolOf(conn domain.Conn) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	symbol, ok := r.byConn[conn]
	return symbol, ok
}

// removeFromSymbol drops conn from symbol's set, pruning the set when it
// becomes empty. Caller must hold r.mu.
func (r *Registry) removeFromSymbol(conn domain.Conn, symbol string) {
	set, ok := r.bySymbol[symbol]
	if !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(r.bySymbol, symbol)
	}
}

// publishGauges updates subscription gauges. Caller must hold r.mu.
func (r *Registry) publishGauges() {
	metrics.RegistrySubscribedSymbols.Set(float64(len(r.bySymbol)))
	metrics.RegistryActiveSubscriptions.Set(float64(len(r.byConn)))
}
