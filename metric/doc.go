// Package metric provides Prometheus-based metrics collection and an HTTP
// server for scanstream platform monitoring.
//
// The package offers a centralized metrics registry managing both core
// platform metrics (service status, scan session counters, decode pipeline
// counters, NATS health) and custom component-specific metrics. It includes
// an HTTP server exposing the registry in Prometheus format.
//
// # Architecture
//
// The package follows a three-layer design:
//
//  1. Core Metrics: platform-level metrics registered automatically (Metrics type)
//  2. Component Registry: extensible registration for component metrics (MetricsRegistrar interface)
//  3. HTTP Server: metrics endpoint with a health check (Server type)
//
// Core metrics cover the shared concerns every deployment wants: how many
// scan sessions completed, were rejected by length bounds or abandoned to a
// timeout, how decode attempts broke down by format and outcome, and whether
// the NATS connection is up. Component metrics belong to the component that
// emits them; registering them through the MetricsRegistrar keeps duplicate
// names an explicit, classified error instead of a prometheus panic.
//
// # Basic Usage
//
// Setting up metrics collection and the HTTP server:
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//
//	go func() {
//	    if err := server.Start(); err != nil {
//	        log.Printf("metrics server error: %v", err)
//	    }
//	}()
//
//	core := registry.CoreMetrics()
//	core.RecordServiceStatus("scan-feed", 2)
//	core.RecordScanCompleted("feed-1")
//	core.RecordDecode("gs", "ok")
//
// # Component Metrics
//
// Components declare their own Metrics struct and register each collector
// under their component name:
//
//	depth := prometheus.NewGauge(prometheus.GaugeOpts{
//	    Namespace: "scanstream",
//	    Subsystem: "scan_feed",
//	    Name:      "connections_active",
//	    Help:      "Active feed connections",
//	})
//	if err := registry.RegisterGauge("scan-feed", "connections_active", depth); err != nil {
//	    return err
//	}
//
// Registration errors carry the errors package classification: duplicate
// names are invalid, prometheus-level failures are fatal.
package metric
