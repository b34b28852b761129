// Package session implements the per-connection WebSocket protocol handler.
//
// A Session owns exactly one client connection: a read loop that parses
// subscribe commands and mutates the registry, and a single writer
// goroutine that serializes all outbound frames (protocol replies and
// scheduler-pushed price updates) because the transport forbids concurrent
// writes.
package session

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/coding-mage/StockVibe/internal/domain"
	"github.com/coding-mage/StockVibe/internal/metrics"
)

const (
	writeDeadline   = 5 * time.Second
	pingInterval    = 30 * time.Second
	pongDeadline    = 60 * time.Second
	sendBufferSize  = 16
	maxCommandSize  = 4096
	actionSubscribe = "subscribe"
)

// Subscriptions is the session's view of the registry.
type Subscriptions interface {
	Subscribe(conn domain.Conn, symbol string)
	Unsubscribe(conn domain.Conn)
}

// Session is the protocol handler for one connection. It implements
// domain.Conn so the registry and scheduler can hold it as an opaque
// handle.
type Session struct {
	id            uuid.UUID
	conn          *websocket.Conn
	subscriptions Subscriptions
	clock         clockwork.Clock

	sendCh      chan []byte
	done        chan struct{}
	stopOnce    sync.Once
	cleanupOnce sync.Once
	wg          sync.WaitGroup
}

// New creates a session over an upgraded connection and starts its writer
// goroutine. The caller drives the read loop via Run.
func New(conn *websocket.Conn, subscriptions Subscriptions, clock clockwork.Clock) *Session {
	s := &Session{
		id:            uuid.New(),
		conn:          conn,
		subscriptions: subscriptions,
		clock:         clock,
		sendCh:        make(chan []byte, sendBufferSize),
		done:          make(chan struct{}),
	}
	s.configurePongHandler()
	s.wg.Add(1)
	go s.writeLoop()
	return s
}

// ID identifies the session for logging and registry indexing.
func (s *Session) ID() uuid.UUID { return s.id }

// Run processes inbound commands until the transport disconnects, then
// performs cleanup exactly once. It blocks, so callers run it on the
// connection's handler goroutine.
func (s *Session) Run() {
	metrics.WebSocketConnectedClients.Inc()
	slog.Debug("Session opened", "conn_id", s.id.String())

	defer func() {
		s.cleanup()
		metrics.WebSocketConnectedClients.Dec()
		slog.Debug("Session closed", "conn_id", s.id.String())
	}()

	s.conn.SetReadLimit(maxCommandSize)

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		s.handleCommand(payload)
	}
}

// handleCommand parses and executes one inbound message. Protocol errors
// are reported to the client and never close the connection.
func (s *Session) handleCommand(payload []byte) {
	var cmd domain.Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		metrics.WebSocketProtocolErrors.Inc()
		s.sendJSON(domain.ErrorMessage{Error: "invalid json"})
		return
	}

	switch cmd.Action {
	case actionSubscribe:
		if cmd.Symbol == "" {
			metrics.WebSocketProtocolErrors.Inc()
			s.sendJSON(domain.ErrorMessage{Error: "no symbol provided"})
			return
		}
		// Registry mutation happens before the ack so the scheduler can
		// never attribute an update to a subscription the client has not
		// been told about.
		s.subscriptions.Subscribe(s, cmd.Symbol)
		slog.Info("Subscribed", "conn_id", s.id.String(), "symbol", cmd.Symbol)
		s.sendJSON(domain.NewSubscribeAck(cmd.Symbol))
	default:
		metrics.WebSocketProtocolErrors.Inc()
		s.sendJSON(domain.ErrorMessage{Error: "unknown action"})
	}
}

// Send enqueues an outbound frame without blocking. A full buffer means
// the client cannot keep up; the caller treats that as a disconnect.
func (s *Session) Send(msg []byte) error {
	select {
	case <-s.done:
		return domain.ErrConnClosed
	default:
	}

	select {
	case s.sendCh <- msg:
		return nil
	default:
		return domain.ErrSendBufferFull
	}
}

// Close tears the session down from any goroutine. The read loop unblocks
// with an error and Run's cleanup completes the registry removal.
func (s *Session) Close() {
	s.stopOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// cleanup unsubscribes and releases session resources exactly once, on
// explicit disconnect or on a failed send during broadcast.
func (s *Session) cleanup() {
	s.cleanupOnce.Do(func() {
		s.subscriptions.Unsubscribe(s)
		s.Close()
		s.wg.Wait()
	})
}

// writeLoop is the single writer for the connection. It drains the send
// buffer, applies write deadlines and keeps the connection alive with
// pings.
func (s *Session) writeLoop() {
	defer s.wg.Done()

	ticker := s.clock.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-s.sendCh:
			start := s.clock.Now()
			s.updateWriteDeadline()
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
			metrics.WebSocketMessageSendDuration.Observe(s.clock.Since(start).Seconds())
		case <-ticker.Chan():
			s.updateWriteDeadline()
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				metrics.WebSocketPingFailures.Inc()
				return
			}
		case <-s.done:
			return
		}
	}
}

// sendJSON marshals and enqueues a protocol reply. A client whose buffer
// is already full loses the reply; it is about to be evicted anyway.
func (s *Session) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal protocol reply", "conn_id", s.id.String(), "error", err)
		return
	}
	if err := s.Send(data); err != nil {
		slog.Warn("Dropped protocol reply", "conn_id", s.id.String(), "error", err)
	}
}

func (s *Session) configurePongHandler() {
	s.updateReadDeadline()
	s.conn.SetPongHandler(func(string) error {
		s.updateReadDeadline()
		return nil
	})
}

func (s *Session) updateWriteDeadline() {
	_ = s.conn.SetWriteDeadline(s.clock.Now().Add(writeDeadline))
}

func (s *Session) updateReadDeadline() {
	_ = s.conn.SetReadDeadline(s.clock.Now().Add(pongDeadline))
}

var _ domain.Conn = (*Session)(nil)
