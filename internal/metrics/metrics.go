package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scheduler Metrics
var (
	// SchedulerTicksTotal counts completed poll-loop ticks
	SchedulerTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduler_ticks_total",
			Help: "Total scheduler poll ticks executed",
		},
	)

	// SchedulerTickDuration tracks full tick duration in seconds
	SchedulerTickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scheduler_tick_duration_seconds",
			Help:    "Scheduler tick duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// SchedulerPanicsTotal counts recovered panics in the tick loop
	SchedulerPanicsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduler_panics_total",
			Help: "Total panics recovered in the scheduler tick loop",
		},
	)

	// SchedulerDeliveryFailures counts per-connection delivery failures
	SchedulerDeliveryFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduler_delivery_failures_total",
			Help: "Total price update deliveries that failed and triggered cleanup",
		},
	)

	// SchedulerUpdatesDelivered counts successfully enqueued price updates
	SchedulerUpdatesDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduler_updates_delivered_total",
			Help: "Total price updates enqueued to subscriber connections",
		},
	)
)

// Quote Provider Metrics
var (
	// QuoteFetchesTotal tracks upstream quote fetches by status
	QuoteFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_fetches_total",
			Help: "Total quote provider fetches by status",
		},
		[]string{"status"},
	)

	// QuoteFetchDuration tracks upstream quote fetch latency in seconds
	QuoteFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quote_fetch_duration_seconds",
			Help:    "Quote provider fetch duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// CircuitBreakerStateChanges tracks breaker transitions by component and new state
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)
)

// Registry Metrics
var (
	// RegistrySubscribedSymbols tracks distinct symbols with at least one subscriber
	RegistrySubscribedSymbols = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registry_subscribed_symbols",
			Help: "Distinct symbols with at least one subscriber",
		},
	)

	// RegistryActiveSubscriptions tracks connections with an active subscription
	RegistryActiveSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registry_active_subscriptions",
			Help: "Connections currently subscribed to a symbol",
		},
	)
)

// WebSocket Metrics
var (
	// WebSocketConnectedClients tracks open WebSocket sessions
	WebSocketConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connected_clients",
			Help: "Currently open WebSocket sessions",
		},
	)

	// WebSocketMessageSendDuration tracks message write latency in seconds
	WebSocketMessageSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_message_send_duration_seconds",
			Help:    "WebSocket message send duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)

	// WebSocketSlowClientsEvicted counts clients dropped for full send buffers
	WebSocketSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_slow_clients_evicted_total",
			Help: "Clients disconnected because their send buffer was full",
		},
	)

	// WebSocketPingFailures counts failed keepalive pings
	WebSocketPingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_ping_failures_total",
			Help: "Failed WebSocket keepalive pings",
		},
	)

	// WebSocketProtocolErrors counts malformed or unknown client commands
	WebSocketProtocolErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_protocol_errors_total",
			Help: "Malformed or unknown inbound WebSocket commands",
		},
	)
)

// HTTP API Metrics
var (
	// APICacheRequests tracks cache lookups for upstream-backed endpoints
	APICacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_cache_requests_total",
			Help: "Cache lookups for upstream-backed API endpoints by result",
		},
		[]string{"endpoint", "result"},
	)
)
