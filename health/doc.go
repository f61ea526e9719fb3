// Package health provides health tracking for the scan pipeline components
// with thread-safe status tracking and aggregation.
//
// # Health States
//
// The package supports three health states:
//   - Healthy: component operating normally
//   - Degraded: component operating with reduced functionality
//   - Unhealthy: component not functioning properly
//
// A degraded NATS connection (circuit open, backing off) is reported
// differently from a dead one, so operators can tell a reconnect storm
// from an outage.
//
// # Core Components
//
// Status: individual component health state containing status level,
// descriptive message, timestamp, and hierarchical sub-statuses.
//
// Monitor: thread-safe tracking for multiple component statuses. The
// monitor satisfies the gateway's health source contract, so passing it to
// the gateway makes /healthz report the aggregate of everything registered.
//
// # Basic Usage
//
//	monitor := health.NewMonitor(registry.CoreMetrics())
//
//	monitor.UpdateHealthy("natsclient", "connected")
//	monitor.UpdateDegraded("websocket-feed", "no active sessions")
//	monitor.UpdateUnhealthy("natspub-output", "publish queue full")
//
//	if status, exists := monitor.Get("natsclient"); exists && status.IsHealthy() {
//	    log.Println("NATS is healthy")
//	}
//
//	system := monitor.AggregateHealth("scanstream")
//
// Unhealthy and degraded messages are sanitized before storage: URLs,
// file paths, addresses, and credential-shaped fragments are replaced
// with placeholders so raw connection errors never reach the health
// endpoint verbatim.
package health
