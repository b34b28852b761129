package domain

import "errors"

var (
	// ErrSendBufferFull means a connection's outbound buffer is full.
	// The sender treats the client as too slow to keep up.
	ErrSendBufferFull = errors.New("send buffer full")

	// ErrConnClosed means the connection has already been torn down.
	ErrConnClosed = errors.New("connection closed")

	// ErrNoHistory means the provider returned no usable historical data.
	ErrNoHistory = errors.New("no historical data available")

	// ErrNotFound is returned by stores when a key has no value.
	ErrNotFound = errors.New("not found")
)
