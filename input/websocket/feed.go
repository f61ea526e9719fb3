package websocket

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/scanstream/config"
	"github.com/c360/scanstream/errors"
	"github.com/c360/scanstream/gs1"
	"github.com/c360/scanstream/metric"
	"github.com/c360/scanstream/scanlog"
)

const componentName = "websocket-feed"

// EventSink consumes the feed's completed and rejected scans. Satisfied by
// *natspub.Publisher.
type EventSink interface {
	PublishScan(surface, raw, display string, data *gs1.ParsedData) (string, error)
	PublishRejected(surface, raw, reason string) error
}

// Metrics holds Prometheus metrics for the feed server
type Metrics struct {
	keysReceived      prometheus.Counter
	connectionsActive prometheus.Gauge
	connectionsTotal  prometheus.Counter
	rateLimited       prometheus.Counter
	errorsTotal       *prometheus.CounterVec
}

// newMetrics creates and registers feed metrics
func newMetrics(registry *metric.MetricsRegistry) (*Metrics, error) {
	if registry == nil {
		return nil, nil
	}

	metrics := &Metrics{
		keysReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scanstream",
			Subsystem: "websocket_feed",
			Name:      "keys_received_total",
			Help:      "Total key events received across all connections",
		}),

		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scanstream",
			Subsystem: "websocket_feed",
			Name:      "connections_active",
			Help:      "Number of active feed connections",
		}),

		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scanstream",
			Subsystem: "websocket_feed",
			Name:      "connections_total",
			Help:      "Total number of feed connections",
		}),

		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scanstream",
			Subsystem: "websocket_feed",
			Name:      "rate_limited_total",
			Help:      "Key events rejected by the per-connection rate limiter",
		}),

		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scanstream",
			Subsystem: "websocket_feed",
			Name:      "errors_total",
			Help:      "Total errors by type",
		}, []string{"type"}),
	}

	if err := registry.RegisterCounter(componentName, "keys_received", metrics.keysReceived); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(componentName, "connections_total", metrics.connectionsTotal); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(componentName, "rate_limited", metrics.rateLimited); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(componentName, "connections_active", metrics.connectionsActive); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec(componentName, "errors_total", metrics.errorsTotal); err != nil {
		return nil, err
	}

	return metrics, nil
}

// Feed is the WebSocket key-event feed server. One scan session (Box) is
// maintained per connection; each connection is a separate scan surface.
type Feed struct {
	cfg     config.FeedConfig
	scanCfg config.ScanConfig

	sink    EventSink
	core    *metric.Metrics
	metrics *Metrics
	logger  *scanlog.Logger

	upgrader   websocket.Upgrader
	httpServer *http.Server

	sessions   map[string]*session
	sessionsMu sync.Mutex
	connSeq    atomic.Int64

	started      atomic.Bool
	lifecycleMu  sync.Mutex
	cancel       context.CancelFunc
	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewFeed creates the feed server. The sink receives completed and rejected
// scans; the registry may be nil to disable metrics.
func NewFeed(
	cfg config.FeedConfig,
	scanCfg config.ScanConfig,
	sink EventSink,
	registry *metric.MetricsRegistry,
	logger *scanlog.Logger,
) (*Feed, error) {
	if sink == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Feed", "NewFeed", "event sink is required")
	}
	if cfg.Port <= 0 {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "Feed", "NewFeed", "port must be positive")
	}
	if cfg.Path == "" {
		cfg.Path = "/scan/feed"
	}

	readBuf := cfg.ReadBufferSize
	if readBuf <= 0 {
		readBuf = 1024
	}
	writeBuf := cfg.WriteBufferSize
	if writeBuf <= 0 {
		writeBuf = 1024
	}

	f := &Feed{
		cfg:      cfg,
		scanCfg:  scanCfg,
		sink:     sink,
		logger:   logger,
		sessions: make(map[string]*session),
		shutdown: make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBuf,
			WriteBufferSize: writeBuf,
			// Scanner stations are same-deployment clients, not browsers
			// from arbitrary origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	if registry != nil {
		f.core = registry.CoreMetrics()
		m, err := newMetrics(registry)
		if err != nil {
			return nil, errors.WrapFatal(err, "Feed", "NewFeed", "register metrics")
		}
		f.metrics = m
	}

	return f, nil
}

// Start begins accepting feed connections
func (f *Feed) Start(ctx context.Context) error {
	f.lifecycleMu.Lock()
	defer f.lifecycleMu.Unlock()

	if f.started.Load() {
		return errors.WrapFatal(errors.ErrAlreadyStarted, "Feed", "Start", "check started state")
	}

	feedCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel

	mux := http.NewServeMux()
	mux.HandleFunc(f.cfg.Path, func(w http.ResponseWriter, r *http.Request) {
		f.handleWebSocket(feedCtx, w, r)
	})

	f.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", f.cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		if err := f.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			f.trackError("server_error")
			f.logError("Feed server stopped unexpectedly", err)
		}
	}()

	f.started.Store(true)
	f.logInfo(fmt.Sprintf("Feed server listening on :%d%s", f.cfg.Port, f.cfg.Path))
	return nil
}

// Stop shuts the server down and closes all sessions
func (f *Feed) Stop(timeout time.Duration) error {
	f.lifecycleMu.Lock()
	defer f.lifecycleMu.Unlock()

	if !f.started.Load() {
		return nil
	}

	f.shutdownOnce.Do(func() {
		close(f.shutdown)
	})
	f.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if f.httpServer != nil {
		_ = f.httpServer.Shutdown(ctx)
	}

	f.sessionsMu.Lock()
	for _, s := range f.sessions {
		s.close()
	}
	f.sessions = make(map[string]*session)
	f.sessionsMu.Unlock()

	doneCh := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(doneCh)
	}()

	select {
	case <-doneCh:
	case <-time.After(timeout):
		return errors.WrapTransient(
			fmt.Errorf("shutdown timeout after %v", timeout),
			"Feed", "Stop", "wait for goroutines")
	}

	f.started.Store(false)
	return nil
}

// ActiveSessions returns the number of live feed connections
func (f *Feed) ActiveSessions() int {
	f.sessionsMu.Lock()
	defer f.sessionsMu.Unlock()
	return len(f.sessions)
}

// Handler exposes the upgrade handler for tests and embedding
func (f *Feed) Handler(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.handleWebSocket(ctx, w, r)
	}
}

// handleWebSocket authenticates, upgrades and registers a connection
func (f *Feed) handleWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if !f.authenticateRequest(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		f.trackError("auth_failed")
		return
	}

	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.trackError("upgrade_error")
		return
	}

	id := fmt.Sprintf("feed-%d", f.connSeq.Add(1))
	s := newSession(id, conn, f)

	f.sessionsMu.Lock()
	f.sessions[id] = s
	f.sessionsMu.Unlock()

	if f.metrics != nil {
		f.metrics.connectionsActive.Inc()
		f.metrics.connectionsTotal.Inc()
	}
	if f.core != nil {
		f.core.ActiveSessions.Inc()
	}

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		s.readLoop(ctx)
		f.removeSession(id)
	}()
}

func (f *Feed) removeSession(id string) {
	f.sessionsMu.Lock()
	s, ok := f.sessions[id]
	if ok {
		delete(f.sessions, id)
	}
	f.sessionsMu.Unlock()

	if !ok {
		return
	}

	s.close()
	if f.metrics != nil {
		f.metrics.connectionsActive.Dec()
	}
	if f.core != nil {
		f.core.ActiveSessions.Dec()
	}
}

// authenticateRequest validates credentials on the upgrade request
func (f *Feed) authenticateRequest(r *http.Request) bool {
	switch f.cfg.Auth.Type {
	case "", "none":
		return true

	case "bearer":
		expected := os.Getenv(f.cfg.Auth.BearerTokenEnv)
		if expected == "" {
			return false // Token not configured
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return false
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		return subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1

	default:
		return false // Unknown auth type
	}
}

func (f *Feed) trackError(errorType string) {
	if f.metrics != nil {
		f.metrics.errorsTotal.WithLabelValues(errorType).Inc()
	}
}

func (f *Feed) logInfo(msg string) {
	if f.logger != nil {
		f.logger.Info(msg)
	}
}

func (f *Feed) logError(msg string, err error) {
	if f.logger != nil {
		f.logger.Error(msg, err)
	}
}
