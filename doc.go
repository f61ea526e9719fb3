// Package scanstream turns the keystroke bursts produced by keyboard-wedge
// barcode scanners into decoded, validated GS1 records.
//
// # Pipeline
//
// A handheld scanner emulates a keyboard: every scan arrives as a burst of
// individual key events with no framing beyond timing and a terminator key.
// ScanStream reconstructs those bursts into raw barcode strings, then decodes
// and validates them against the GS1 Application Identifier vocabulary:
//
//	┌───────────┐    key events    ┌──────────┐   raw string   ┌─────────┐
//	│ scanner / │ ───────────────→ │ scanbox  │ ─────────────→ │   gs1   │
//	│ websocket │                  │ (session │                │ decode+ │
//	│   feed    │                  │  state   │                │ validate│
//	└───────────┘                  │ machine) │                └────┬────┘
//	                               └──────────┘                     ↓
//	                                                      scan.decoded.* (NATS)
//
// # Packages
//
// Core pipeline:
//   - scanbox: per-surface keystroke session state machine (buffering,
//     terminator/timeout/cancel boundaries, live display feedback)
//   - gs1: raw decoder for GS-separated and parenthesized encodings,
//     element validation, dependency resolution, categorization
//   - vocabulary: immutable registry of Application Identifier definitions
//
// Infrastructure:
//   - config: configuration loading and validation
//   - errors: structured error handling with classification
//   - metric: Prometheus metrics
//   - health: per-component health tracking and aggregation
//   - scanlog: structured logging with optional NATS streaming
//
// Transport components:
//   - input/websocket: key-event feed server for scanner bridge clients
//   - output/natspub: decoded-scan publisher (NATS)
//   - gateway/http: REST surface for manual decode and vocabulary lookup
//
// # Binary
//
//	# Run the service
//	./bin/scanstream --config configs/example.yaml
//
//	# Offline decode from the command line
//	./bin/gs1 decode "(01)06923604463221(17)251231(10)ABC123"
package scanstream
