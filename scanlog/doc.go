// Package scanlog provides structured logging for scanstream components.
//
// New builds the process-wide slog.Logger (JSON or text handler, level per
// configuration). Logger wraps it per component and, when a NATS connection
// is supplied, mirrors every entry to logs.{platform}.{component} so remote
// consumers can tail a deployment without shell access.
package scanlog
