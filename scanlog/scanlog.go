package scanlog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360/scanstream/config"
)

// LogLevel represents the severity level of a log entry.
type LogLevel string

const (
	// LogLevelDebug represents debug-level logs
	LogLevelDebug LogLevel = "DEBUG"
	// LogLevelInfo represents informational logs
	LogLevelInfo LogLevel = "INFO"
	// LogLevelWarn represents warning logs
	LogLevelWarn LogLevel = "WARN"
	// LogLevelError represents error logs
	LogLevelError LogLevel = "ERROR"
)

// LogEntry is the structured log record published to NATS for remote
// consumption (dashboards, log tailing).
type LogEntry struct {
	Timestamp string   `json:"timestamp"` // RFC3339 format
	Level     LogLevel `json:"level"`
	Component string   `json:"component"`
	Platform  string   `json:"platform"`
	Message   string   `json:"message"`
	Stack     string   `json:"stack,omitempty"` // error details
}

// New builds the process-wide slog.Logger from the logging configuration.
func New(cfg config.LoggingConfig) *slog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit output writer.
func NewWithWriter(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger provides structured logging for components. It wraps a standard
// slog.Logger for local output and optionally publishes each entry to NATS
// under logs.{platform}.{component} for remote streaming.
type Logger struct {
	component string
	platform  string
	nc        *nats.Conn
	logger    *slog.Logger
	enabled   bool // whether NATS publishing is enabled
}

// NewLogger creates a component logger. A nil NATS connection disables
// remote publishing and keeps local logging only.
func NewLogger(component, platform string, nc *nats.Conn, logger *slog.Logger) *Logger {
	return &Logger{
		component: component,
		platform:  platform,
		nc:        nc,
		logger:    logger,
		enabled:   nc != nil,
	}
}

// Debug logs a debug-level message
func (cl *Logger) Debug(msg string) {
	cl.DebugContext(context.Background(), msg)
}

// Info logs an info-level message
func (cl *Logger) Info(msg string) {
	cl.InfoContext(context.Background(), msg)
}

// Warn logs a warning-level message
func (cl *Logger) Warn(msg string) {
	cl.WarnContext(context.Background(), msg)
}

// Error logs an error-level message with optional error details
func (cl *Logger) Error(msg string, err error) {
	cl.ErrorContext(context.Background(), msg, err)
}

// DebugContext logs a debug-level message with context
func (cl *Logger) DebugContext(ctx context.Context, msg string) {
	cl.publish(ctx, LogLevelDebug, msg, "")
	if cl.logger != nil {
		cl.logger.Debug(msg, "component", cl.component)
	}
}

// InfoContext logs an info-level message with context
func (cl *Logger) InfoContext(ctx context.Context, msg string) {
	cl.publish(ctx, LogLevelInfo, msg, "")
	if cl.logger != nil {
		cl.logger.Info(msg, "component", cl.component)
	}
}

// WarnContext logs a warning-level message with context
func (cl *Logger) WarnContext(ctx context.Context, msg string) {
	cl.publish(ctx, LogLevelWarn, msg, "")
	if cl.logger != nil {
		cl.logger.Warn(msg, "component", cl.component)
	}
}

// ErrorContext logs an error-level message with optional error details
func (cl *Logger) ErrorContext(ctx context.Context, msg string, err error) {
	stack := ""
	if err != nil {
		stack = fmt.Sprintf("%+v", err)
	}
	cl.publish(ctx, LogLevelError, msg, stack)
	if cl.logger != nil {
		cl.logger.Error(msg, "component", cl.component, "error", err)
	}
}

// publish sends a log entry to NATS, best effort. Publish failures fall
// back to local logging and never propagate.
func (cl *Logger) publish(ctx context.Context, level LogLevel, message, stack string) {
	if !cl.enabled {
		return
	}

	select {
	case <-ctx.Done():
		return
	default:
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Component: cl.component,
		Platform:  cl.platform,
		Message:   message,
		Stack:     stack,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		if cl.logger != nil {
			cl.logger.Error("failed to marshal log entry", "error", err)
		}
		return
	}

	// nc may be nilled out concurrently during shutdown
	nc := cl.nc
	if nc == nil {
		return
	}

	subject := fmt.Sprintf("logs.%s.%s", cl.platform, cl.component)
	if err := nc.Publish(subject, data); err != nil {
		if cl.logger != nil {
			cl.logger.Error("failed to publish log to NATS", "error", err, "subject", subject)
		}
	}
}
