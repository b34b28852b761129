package domain

import "github.com/google/uuid"

// Conn is an opaque handle to one client's bidirectional message channel.
// Identity is handle equality: the registry keys its maps on the Conn value
// itself, so implementations must be pointer types.
type Conn interface {
	// ID identifies the connection for logging and indexing.
	ID() uuid.UUID

	// Send enqueues an outbound message without blocking. It returns an
	// error when the connection's outbound buffer is full or the
	// connection is already closed; callers treat that as an implicit
	// disconnect.
	Send(msg []byte) error

	// Close tears the connection down. Safe to call from any goroutine
	// and more than once.
	Close()
}
