package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the platform-level metrics every component shares.
// Component-specific metrics live with their component and register through
// the MetricsRegistry.
type Metrics struct {
	ServiceStatus     *prometheus.GaugeVec
	HealthCheckStatus *prometheus.GaugeVec
	ErrorsTotal       *prometheus.CounterVec

	// Scan session metrics
	ScansCompleted *prometheus.CounterVec
	ScansRejected  *prometheus.CounterVec
	ScansAbandoned *prometheus.CounterVec
	ActiveSessions prometheus.Gauge

	// Decode pipeline metrics
	DecodesTotal    *prometheus.CounterVec
	DecodeDuration  *prometheus.HistogramVec
	ElementsDecoded *prometheus.CounterVec

	// NATS metrics
	NATSConnected  prometheus.Gauge
	NATSReconnects prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all platform metrics
func NewMetrics() *Metrics {
	return &Metrics{
		ServiceStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "scanstream",
				Subsystem: "service",
				Name:      "status",
				Help:      "Service status (0=stopped, 1=starting, 2=running, 3=stopping, 4=failed)",
			},
			[]string{"service"},
		),

		HealthCheckStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "scanstream",
				Subsystem: "health",
				Name:      "status",
				Help:      "Health check status (0=unhealthy, 1=healthy)",
			},
			[]string{"service"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "scanstream",
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of errors",
			},
			[]string{"service", "type"},
		),

		ScansCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "scanstream",
				Subsystem: "scans",
				Name:      "completed_total",
				Help:      "Total scan sessions closed by a terminator key",
			},
			[]string{"surface"},
		),

		ScansRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "scanstream",
				Subsystem: "scans",
				Name:      "rejected_total",
				Help:      "Total completed scans rejected by length bounds",
			},
			[]string{"surface"},
		),

		ScansAbandoned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "scanstream",
				Subsystem: "scans",
				Name:      "abandoned_total",
				Help:      "Total scan sessions discarded without a terminator",
			},
			[]string{"surface", "reason"},
		),

		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "scanstream",
				Subsystem: "scans",
				Name:      "active_sessions",
				Help:      "Scan surfaces currently accumulating input",
			},
		),

		DecodesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "scanstream",
				Subsystem: "decode",
				Name:      "total",
				Help:      "Total decode attempts by detected format and outcome",
			},
			[]string{"format", "status"},
		),

		DecodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "scanstream",
				Subsystem: "decode",
				Name:      "duration_seconds",
				Help:      "Decode and validation duration in seconds",
				Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
			},
			[]string{"operation"},
		),

		ElementsDecoded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "scanstream",
				Subsystem: "decode",
				Name:      "elements_total",
				Help:      "Total decoded elements by AI category",
			},
			[]string{"category"},
		),

		NATSConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "scanstream",
				Subsystem: "nats",
				Name:      "connected",
				Help:      "NATS connection status (0=disconnected, 1=connected)",
			},
		),

		NATSReconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "scanstream",
				Subsystem: "nats",
				Name:      "reconnects_total",
				Help:      "Total number of NATS reconnections",
			},
		),
	}
}

// RecordServiceStatus updates service status metric
func (m *Metrics) RecordServiceStatus(service string, status int) {
	m.ServiceStatus.WithLabelValues(service).Set(float64(status))
}

// RecordHealthStatus updates health check status
func (m *Metrics) RecordHealthStatus(service string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	m.HealthCheckStatus.WithLabelValues(service).Set(value)
}

// RecordError increments error counter
func (m *Metrics) RecordError(service, errorType string) {
	m.ErrorsTotal.WithLabelValues(service, errorType).Inc()
}

// RecordScanCompleted increments the completed scan counter for a surface
func (m *Metrics) RecordScanCompleted(surface string) {
	m.ScansCompleted.WithLabelValues(surface).Inc()
}

// RecordScanRejected increments the length-rejected scan counter
func (m *Metrics) RecordScanRejected(surface string) {
	m.ScansRejected.WithLabelValues(surface).Inc()
}

// RecordScanAbandoned increments the abandoned scan counter
func (m *Metrics) RecordScanAbandoned(surface, reason string) {
	m.ScansAbandoned.WithLabelValues(surface, reason).Inc()
}

// RecordDecode increments the decode counter for a format and outcome
func (m *Metrics) RecordDecode(format, status string) {
	m.DecodesTotal.WithLabelValues(format, status).Inc()
}

// RecordDecodeDuration records how long one decode or validation call took
func (m *Metrics) RecordDecodeDuration(operation string, d time.Duration) {
	m.DecodeDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordElement increments the decoded element counter for a category
func (m *Metrics) RecordElement(category string) {
	m.ElementsDecoded.WithLabelValues(category).Inc()
}

// RecordNATSStatus updates NATS connection status
func (m *Metrics) RecordNATSStatus(connected bool) {
	value := 0.0
	if connected {
		value = 1.0
	}
	m.NATSConnected.Set(value)
}

// RecordNATSReconnect increments reconnection counter
func (m *Metrics) RecordNATSReconnect() {
	m.NATSReconnects.Inc()
}
