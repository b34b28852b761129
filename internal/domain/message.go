package domain

// Wire messages for the WebSocket protocol. Inbound commands are parsed by
// the session; outbound frames are produced by the session (acks, errors)
// and the scheduler (price updates).

// Command is the inbound client message: {"action":"subscribe","symbol":"AAPL"}.
type Command struct {
	Action string `json:"action"`
	Symbol string `json:"symbol"`
}

// PriceUpdate is produced once per symbol per scheduler tick and shared
// immutably across all recipients of that tick. A nil Price signals a
// failed fetch.
type PriceUpdate struct {
	Type   string   `json:"type"`
	Symbol string   `json:"symbol"`
	Price  *float64 `json:"price"`
	TS     int64    `json:"ts"`
}

// NewPriceUpdate builds a price update frame. price is nil when the fetch
// failed.
func NewPriceUpdate(symbol string, price *float64, ts int64) PriceUpdate {
	return PriceUpdate{Type: "price", Symbol: symbol, Price: price, TS: ts}
}

// SubscribeAck acknowledges a successful subscribe: {"type":"subscribed",...}.
type SubscribeAck struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
}

// NewSubscribeAck builds the acknowledgment frame for a symbol.
func NewSubscribeAck(symbol string) SubscribeAck {
	return SubscribeAck{Type: "subscribed", Symbol: symbol}
}

// ErrorMessage reports a protocol error back to the offending connection
// without closing it.
type ErrorMessage struct {
	Error string `json:"error"`
}
