// Package http provides the REST gateway for manual decoding and vocabulary
// lookup.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/c360/scanstream/errors"
	"github.com/c360/scanstream/gs1"
	"github.com/c360/scanstream/health"
	"github.com/c360/scanstream/metric"
	"github.com/c360/scanstream/scanlog"
	"github.com/c360/scanstream/vocabulary"
)

// maxRequestSize bounds decode request bodies. Barcode payloads are tiny;
// anything near this limit is abuse.
const maxRequestSize = 64 * 1024

// HealthSource reports broker connectivity for the health endpoint.
// Satisfied by *natsclient.Client.
type HealthSource interface {
	IsHealthy() bool
}

// getOrGenerateRequestID extracts request ID from headers or generates a new
// one for tracing decode requests through logs
func getOrGenerateRequestID(r *http.Request) string {
	if reqID := r.Header.Get("X-Request-ID"); reqID != "" {
		return reqID
	}

	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// Gateway serves the decode and vocabulary REST API
type Gateway struct {
	port    int
	health  HealthSource
	monitor *health.Monitor
	core    *metric.Metrics
	logger  *scanlog.Logger

	router     *mux.Router
	httpServer *http.Server

	running   atomic.Bool
	mu        sync.RWMutex
	startTime time.Time

	requestsTotal   atomic.Uint64
	requestsSuccess atomic.Uint64
	requestsFailed  atomic.Uint64
}

// Option configures a Gateway
type Option func(*Gateway)

// WithHealthSource wires broker connectivity into /healthz
func WithHealthSource(h HealthSource) Option {
	return func(g *Gateway) {
		g.health = h
	}
}

// WithHealthMonitor includes per-component statuses in /healthz
func WithHealthMonitor(m *health.Monitor) Option {
	return func(g *Gateway) {
		g.monitor = m
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *scanlog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithCoreMetrics records decode activity on the shared core metrics
func WithCoreMetrics(core *metric.Metrics) Option {
	return func(g *Gateway) {
		g.core = core
	}
}

// NewGateway creates the REST gateway listening on the given port
func NewGateway(port int, opts ...Option) (*Gateway, error) {
	if port <= 0 {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "Gateway", "NewGateway", "port must be positive")
	}

	g := &Gateway{port: port}
	for _, opt := range opts {
		opt(g)
	}

	g.router = g.buildRouter()
	return g, nil
}

// buildRouter wires the API routes
func (g *Gateway) buildRouter() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/decode", g.handleDecode).Methods(http.MethodPost)
	api.HandleFunc("/vocabulary", g.handleVocabularyList).Methods(http.MethodGet)
	api.HandleFunc("/vocabulary/{ai}", g.handleVocabularyGet).Methods(http.MethodGet)

	r.HandleFunc("/healthz", g.handleHealth).Methods(http.MethodGet)

	r.Use(g.requestIDMiddleware)
	return r
}

// Router exposes the handler for tests and embedding
func (g *Gateway) Router() http.Handler {
	return g.router
}

// Start begins serving; it blocks until the server stops
func (g *Gateway) Start(_ context.Context) error {
	if !g.running.CompareAndSwap(false, true) {
		return errors.WrapFatal(errors.ErrAlreadyStarted, "Gateway", "Start", "gateway already running")
	}

	g.mu.Lock()
	g.startTime = time.Now()
	g.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", g.port),
		Handler:           g.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := g.httpServer
	g.mu.Unlock()

	g.logInfo(fmt.Sprintf("Gateway listening on :%d", g.port))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		g.running.Store(false)
		return errors.WrapTransient(err, "Gateway", "Start", "serve HTTP")
	}
	return nil
}

// Stop gracefully shuts the gateway down
func (g *Gateway) Stop(timeout time.Duration) error {
	if !g.running.Load() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	g.mu.RLock()
	server := g.httpServer
	g.mu.RUnlock()

	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			return errors.WrapTransient(err, "Gateway", "Stop", "shutdown HTTP server")
		}
	}

	g.running.Store(false)
	return nil
}

func (g *Gateway) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", getOrGenerateRequestID(r))
		g.requestsTotal.Add(1)
		next.ServeHTTP(w, r)
	})
}

// decodeRequest is the POST /api/v1/decode body
type decodeRequest struct {
	Input string `json:"input"`
	// Format selects the decoder: "gs", "paren" or "auto" (default).
	Format string `json:"format,omitempty"`
}

// decodeResponse pairs the tokenization outcome with the validated data
type decodeResponse struct {
	Input  string           `json:"input"`
	Format gs1.Format       `json:"format"`
	OK     bool             `json:"ok"`
	Errors []gs1.ParseError `json:"errors,omitempty"`
	Data   gs1.ParsedData   `json:"data"`
}

// handleDecode decodes and validates a manually entered barcode string
func (g *Gateway) handleDecode(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize+1))
	if err != nil {
		g.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > maxRequestSize {
		g.writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds maximum size of %d bytes", maxRequestSize))
		return
	}

	var req decodeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		g.writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}
	if req.Input == "" {
		g.writeError(w, http.StatusBadRequest, "input is required")
		return
	}

	start := time.Now()

	var result gs1.ParseResult
	switch req.Format {
	case "", "auto":
		result = gs1.Decode(req.Input)
	case "gs":
		result = gs1.DecodeGS(req.Input)
	case "paren":
		result = gs1.DecodeParenthesized(req.Input)
	default:
		g.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("unknown format %q, expected gs, paren or auto", req.Format))
		return
	}

	data := gs1.Validate(result)

	if g.core != nil {
		g.core.RecordDecodeDuration("gateway_decode", time.Since(start))
		status := "invalid"
		if data.Valid {
			status = "valid"
		}
		g.core.RecordDecode(string(result.Format), status)
	}

	g.writeJSON(w, http.StatusOK, decodeResponse{
		Input:  result.Input,
		Format: result.Format,
		OK:     result.OK,
		Errors: result.Errors,
		Data:   data,
	})
}

// vocabularyListResponse wraps list and search results
type vocabularyListResponse struct {
	Count       int                       `json:"count"`
	Definitions []vocabulary.AIDefinition `json:"definitions"`
}

// handleVocabularyList lists all AI definitions, or searches them when a
// q parameter is present
func (g *Gateway) handleVocabularyList(w http.ResponseWriter, r *http.Request) {
	var defs []vocabulary.AIDefinition
	if q := r.URL.Query().Get("q"); q != "" {
		defs = vocabulary.Search(q)
	} else {
		defs = vocabulary.List()
	}

	if defs == nil {
		defs = []vocabulary.AIDefinition{}
	}

	g.writeJSON(w, http.StatusOK, vocabularyListResponse{
		Count:       len(defs),
		Definitions: defs,
	})
}

// handleVocabularyGet returns a single AI definition
func (g *Gateway) handleVocabularyGet(w http.ResponseWriter, r *http.Request) {
	ai := mux.Vars(r)["ai"]

	def := vocabulary.Lookup(ai)
	if def == nil {
		g.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown AI %q", ai))
		return
	}

	g.writeJSON(w, http.StatusOK, def)
}

// healthResponse is the /healthz body
type healthResponse struct {
	Status     string          `json:"status"`
	NATS       string          `json:"nats,omitempty"`
	Uptime     string          `json:"uptime,omitempty"`
	Components []health.Status `json:"components,omitempty"`
}

func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	g.mu.RLock()
	startTime := g.startTime
	g.mu.RUnlock()

	resp := healthResponse{Status: "ok"}
	if !startTime.IsZero() {
		resp.Uptime = time.Since(startTime).Truncate(time.Second).String()
	}

	status := http.StatusOK
	if g.health != nil {
		if g.health.IsHealthy() {
			resp.NATS = "connected"
		} else {
			resp.NATS = "disconnected"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	if g.monitor != nil {
		agg := g.monitor.AggregateHealth("scanstream")
		resp.Components = agg.SubStatuses
		if agg.IsUnhealthy() {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		} else if agg.IsDegraded() && resp.Status == "ok" {
			resp.Status = "degraded"
		}
	}

	g.writeJSON(w, status, resp)
}

func (g *Gateway) writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		g.requestsFailed.Add(1)
		return
	}

	if statusCode < http.StatusBadRequest {
		g.requestsSuccess.Add(1)
	} else {
		g.requestsFailed.Add(1)
	}
}

func (g *Gateway) writeError(w http.ResponseWriter, statusCode int, message string) {
	g.writeJSON(w, statusCode, map[string]any{
		"error":  message,
		"status": statusCode,
	})
}

func (g *Gateway) logInfo(msg string) {
	if g.logger != nil {
		g.logger.Info(msg)
	}
}
