// Package errors provides standardized error handling patterns for ScanStream components.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (temporary, retryable), Invalid (bad input, non-retryable), and
// Fatal (unrecoverable, stop processing).
//
// Malformed scanner input and malformed barcode strings are never represented
// as errors from this package: the gs1 and scanbox packages accumulate those
// as structured results. Errors here cover infrastructure failures and
// programmer errors (misconfiguration, broken vocabulary definitions), which
// should fail fast at startup rather than per scan.
//
// # Quick Start
//
// Use standard error variables for known conditions:
//
//	if scanLen < cfg.MinLength {
//	    return errors.ErrScanTooShort
//	}
//
// Wrap errors with component context for debugging:
//
//	if err := publisher.Publish(ctx, event); err != nil {
//	    return errors.WrapTransient(err, "NATSPublisher", "Publish", "publish scan event")
//	}
//
// Check classification for retry decisions:
//
//	if errors.IsTransient(err) {
//	    // reconnect and retry
//	}
//
// The classification system supports errors.Is(), errors.As(), and standard
// error wrapping chains.
package errors
