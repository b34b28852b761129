// Package broadcast implements the periodic price poll-and-fan-out loop.
//
// The Scheduler snapshots the distinct subscribed symbols once per tick,
// fetches one price per symbol concurrently and pushes the resulting update
// to every interested connection. Fetch failures become null-price updates;
// delivery failures unsubscribe the dead connection. The loop itself never
// terminates on a tick's errors - it is the process's only heartbeat for
// all subscribers.
package broadcast
