// Package quote provides the upstream quote provider backends.
//
// The Yahoo backend wraps piquette/finance-go. Resilient wraps any backend
// with upstream pacing and a circuit breaker so a flapping data source
// cannot stall the scheduler or burn through rate limits.
package quote

import "github.com/coding-mage/StockVibe/internal/domain"

// Backend combines latest-price and history fetching. All concrete
// backends implement both.
type Backend interface {
	domain.QuoteProvider
	domain.HistoryProvider
}
