// Package natspub publishes decoded scan events to NATS for downstream consumers.
package natspub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/scanstream/errors"
	"github.com/c360/scanstream/gs1"
	"github.com/c360/scanstream/metric"
	"github.com/c360/scanstream/scanlog"
)

// NATSPublisher is the slice of the NATS client the publisher needs.
// Satisfied by *natsclient.Client.
type NATSPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

const componentName = "natspub-output"

// defaultQueueSize bounds the publish queue so a NATS outage cannot
// grow memory without limit. Events beyond this are dropped and counted.
const defaultQueueSize = 256

// ScanEvent is the wire envelope for a completed scan. Downstream
// lookup and label-printing consumers subscribe to these.
type ScanEvent struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Platform  string          `json:"platform"`
	Surface   string          `json:"surface"`
	Raw       string          `json:"raw"`
	Display   string          `json:"display,omitempty"`
	Data      *gs1.ParsedData `json:"data,omitempty"`
}

// RejectEvent is published when a scan fails length or decode checks.
type RejectEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Platform  string    `json:"platform"`
	Surface   string    `json:"surface"`
	Raw       string    `json:"raw"`
	Reason    string    `json:"reason"`
}

// Metrics tracks publisher activity
type Metrics struct {
	eventsPublished *prometheus.CounterVec
	publishErrors   prometheus.Counter
	eventsDropped   prometheus.Counter
	queueDepth      prometheus.Gauge
}

func newMetrics(registry *metric.MetricsRegistry) (*Metrics, error) {
	if registry == nil {
		return nil, nil
	}

	m := &Metrics{
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scanstream_natspub_events_published_total",
				Help: "Scan events published to NATS by kind",
			},
			[]string{"kind"},
		),
		publishErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "scanstream_natspub_publish_errors_total",
				Help: "Failed NATS publish attempts",
			},
		),
		eventsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "scanstream_natspub_events_dropped_total",
				Help: "Events dropped because the publish queue was full",
			},
		),
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "scanstream_natspub_queue_depth",
				Help: "Events waiting in the publish queue",
			},
		),
	}

	if err := registry.RegisterCounterVec(componentName, "events_published", m.eventsPublished); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(componentName, "publish_errors", m.publishErrors); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(componentName, "events_dropped", m.eventsDropped); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(componentName, "queue_depth", m.queueDepth); err != nil {
		return nil, err
	}

	return m, nil
}

// Publisher sends scan events to NATS subjects scoped by platform ID.
// Publishing is asynchronous: callers enqueue, a worker goroutine drains
// the queue so scan handling never blocks on the broker.
type Publisher struct {
	platform string
	client   NATSPublisher
	logger   *scanlog.Logger
	metrics  *Metrics

	queue     chan queuedEvent
	queueSize int

	started      atomic.Bool
	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

type queuedEvent struct {
	subject string
	kind    string
	payload []byte
}

// Option configures a Publisher
type Option func(*Publisher)

// WithQueueSize overrides the publish queue capacity
func WithQueueSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *scanlog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New creates a Publisher for the given platform. The registry may be
// nil, in which case no metrics are recorded.
func New(platform string, client NATSPublisher, registry *metric.MetricsRegistry, opts ...Option) (*Publisher, error) {
	if platform == "" {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Publisher", "New", "platform is required")
	}
	if client == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Publisher", "New", "NATS client is required")
	}

	p := &Publisher{
		platform:  platform,
		client:    client,
		queueSize: defaultQueueSize,
		shutdown:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	metrics, err := newMetrics(registry)
	if err != nil {
		return nil, errors.WrapFatal(err, "Publisher", "New", "register metrics")
	}
	p.metrics = metrics

	p.queue = make(chan queuedEvent, p.queueSize)

	return p, nil
}

// DecodedSubject returns the subject completed scans are published to
func (p *Publisher) DecodedSubject() string {
	return fmt.Sprintf("scan.decoded.%s", p.platform)
}

// RejectedSubject returns the subject rejected scans are published to
func (p *Publisher) RejectedSubject() string {
	return fmt.Sprintf("scan.rejected.%s", p.platform)
}

// Start launches the publish worker
func (p *Publisher) Start(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return errors.WrapFatal(errors.ErrAlreadyStarted, "Publisher", "Start", "check running state")
	}

	p.wg.Add(1)
	go p.run(ctx)

	p.logInfo(fmt.Sprintf("Publisher started for platform %s", p.platform))
	return nil
}

// Stop drains the worker, waiting up to timeout
func (p *Publisher) Stop(timeout time.Duration) error {
	if !p.started.Load() {
		return nil
	}

	p.shutdownOnce.Do(func() {
		close(p.shutdown)
	})

	waitCh := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		return nil
	case <-time.After(timeout):
		return errors.WrapTransient(
			fmt.Errorf("shutdown timeout after %v", timeout),
			"Publisher", "Stop", "wait for worker")
	}
}

// PublishScan enqueues a completed scan event and returns its session ID.
// The event is dropped (and counted) if the queue is full.
func (p *Publisher) PublishScan(surface, raw, display string, data *gs1.ParsedData) (string, error) {
	event := ScanEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Platform:  p.platform,
		Surface:   surface,
		Raw:       raw,
		Display:   display,
		Data:      data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", errors.WrapInvalid(err, "Publisher", "PublishScan", "marshal event")
	}

	if err := p.enqueue(queuedEvent{subject: p.DecodedSubject(), kind: "decoded", payload: payload}); err != nil {
		return "", err
	}
	return event.ID, nil
}

// PublishRejected enqueues a rejected-scan event
func (p *Publisher) PublishRejected(surface, raw, reason string) error {
	event := RejectEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Platform:  p.platform,
		Surface:   surface,
		Raw:       raw,
		Reason:    reason,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.WrapInvalid(err, "Publisher", "PublishRejected", "marshal event")
	}

	return p.enqueue(queuedEvent{subject: p.RejectedSubject(), kind: "rejected", payload: payload})
}

func (p *Publisher) enqueue(ev queuedEvent) error {
	if !p.started.Load() {
		return errors.WrapInvalid(errors.ErrNotStarted, "Publisher", "enqueue", "publisher not started")
	}

	select {
	case p.queue <- ev:
		if p.metrics != nil {
			p.metrics.queueDepth.Set(float64(len(p.queue)))
		}
		return nil
	default:
		if p.metrics != nil {
			p.metrics.eventsDropped.Inc()
		}
		p.logWarn(fmt.Sprintf("Publish queue full, dropping %s event", ev.kind))
		return errors.WrapTransient(errors.ErrRateLimited, "Publisher", "enqueue", "publish queue full")
	}
}

// run drains the queue until shutdown, then flushes what remains
func (p *Publisher) run(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			p.flush(ctx)
			return
		case ev := <-p.queue:
			p.send(ctx, ev)
		}
	}
}

// flush publishes queued events without blocking on an empty queue
func (p *Publisher) flush(ctx context.Context) {
	for {
		select {
		case ev := <-p.queue:
			p.send(ctx, ev)
		default:
			return
		}
	}
}

func (p *Publisher) send(ctx context.Context, ev queuedEvent) {
	if p.metrics != nil {
		p.metrics.queueDepth.Set(float64(len(p.queue)))
	}

	if err := p.client.Publish(ctx, ev.subject, ev.payload); err != nil {
		if p.metrics != nil {
			p.metrics.publishErrors.Inc()
		}
		p.logError(fmt.Sprintf("Failed to publish %s event to %s", ev.kind, ev.subject), err)
		return
	}

	if p.metrics != nil {
		p.metrics.eventsPublished.WithLabelValues(ev.kind).Inc()
	}
}

func (p *Publisher) logInfo(msg string) {
	if p.logger != nil {
		p.logger.Info(msg)
	}
}

func (p *Publisher) logWarn(msg string) {
	if p.logger != nil {
		p.logger.Warn(msg)
	}
}

func (p *Publisher) logError(msg string, err error) {
	if p.logger != nil {
		p.logger.Error(msg, err)
	}
}
