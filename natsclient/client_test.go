package natsclient

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/scanstream/metric"
)

// Test basic client creation
func TestNewClient(t *testing.T) {
	client, err := NewClient("nats://localhost:4222")
	assert.NoError(t, err)

	assert.NotNil(t, client)
	assert.Equal(t, "nats://localhost:4222", client.URL())
	assert.Equal(t, StatusDisconnected, client.Status())
	assert.False(t, client.IsHealthy())
}

// Test circuit breaker opens after failures
func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	client, err := NewClient("nats://invalid:4222")
	assert.NoError(t, err)

	// Record 4 failures - should not open
	for i := 0; i < 4; i++ {
		client.recordFailure()
	}
	assert.NotEqual(t, StatusCircuitOpen, client.Status())

	// 5th failure should open circuit
	client.recordFailure()
	assert.Equal(t, StatusCircuitOpen, client.Status())
	assert.Equal(t, int32(5), client.Failures())
}

// Test circuit breaker reset
func TestCircuitBreaker_Reset(t *testing.T) {
	client, err := NewClient("nats://localhost:4222")
	assert.NoError(t, err)

	for i := 0; i < 5; i++ {
		client.recordFailure()
	}
	assert.Equal(t, StatusCircuitOpen, client.Status())

	client.resetCircuit()
	assert.Equal(t, int32(0), client.Failures())
	assert.Equal(t, StatusDisconnected, client.Status())
	assert.Equal(t, time.Second, client.Backoff())
}

// Test backoff grows while failures continue with the circuit open
func TestCircuitBreaker_BackoffIncreases(t *testing.T) {
	client, err := NewClient("nats://invalid:4222",
		WithMaxBackoff(8*time.Second))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		client.recordFailure()
	}
	require.Equal(t, StatusCircuitOpen, client.Status())
	assert.Equal(t, 2*time.Second, client.Backoff())

	// Another round of failures while open doubles the backoff
	for i := 0; i < 5; i++ {
		client.recordFailure()
	}
	assert.Equal(t, 4*time.Second, client.Backoff())
}

func TestCircuitBreaker_BackoffCapped(t *testing.T) {
	client, err := NewClient("nats://invalid:4222",
		WithMaxBackoff(3*time.Second))
	require.NoError(t, err)

	for round := 0; round < 4; round++ {
		for i := 0; i < 5; i++ {
			client.recordFailure()
		}
	}

	assert.LessOrEqual(t, client.Backoff(), 3*time.Second)
}

// Test connect refuses while circuit is open
func TestConnect_CircuitOpen(t *testing.T) {
	client, err := NewClient("nats://invalid:4222")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		client.recordFailure()
	}
	require.Equal(t, StatusCircuitOpen, client.Status())

	err = client.Connect(context.Background())
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestConnectionStatus_String(t *testing.T) {
	assert.Equal(t, "disconnected", StatusDisconnected.String())
	assert.Equal(t, "connecting", StatusConnecting.String())
	assert.Equal(t, "connected", StatusConnected.String())
	assert.Equal(t, "reconnecting", StatusReconnecting.String())
	assert.Equal(t, "circuit_open", StatusCircuitOpen.String())
	assert.Equal(t, "unknown", ConnectionStatus(99).String())
}

// Test options are applied
func TestClientOptions(t *testing.T) {
	client, err := NewClient("nats://localhost:4222",
		WithMaxReconnects(10),
		WithReconnectWait(5*time.Second),
		WithPingInterval(time.Minute),
		WithName("test-client"),
		WithCredentials("user", "pass"),
	)
	require.NoError(t, err)

	assert.Equal(t, 10, client.MaxReconnects())
	assert.Equal(t, 5*time.Second, client.ReconnectWait())
	assert.Equal(t, "test-client", client.clientName)
	assert.Equal(t, "user", client.username)
	assert.Equal(t, "pass", client.password)
}

func TestClientOptions_ThresholdFloor(t *testing.T) {
	client, err := NewClient("nats://localhost:4222",
		WithCircuitBreakerThreshold(0))
	require.NoError(t, err)

	// Invalid threshold falls back to default
	assert.Equal(t, int32(5), client.circuitThreshold)
}

func TestBuildConnectionOptions(t *testing.T) {
	client, err := NewClient("nats://localhost:4222",
		WithToken("secret"),
		WithName("scanstream"),
	)
	require.NoError(t, err)

	opts := client.ConnectionOptions()
	// 9 base handlers/settings plus token and name
	assert.Len(t, opts, 11)
}

// Test operations fail cleanly when not connected
func TestNotConnected(t *testing.T) {
	client, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	ctx := context.Background()

	err = client.Publish(ctx, "scan.decoded.test", []byte("data"))
	assert.ErrorIs(t, err, ErrNotConnected)

	err = client.Subscribe(ctx, "scan.>", func(context.Context, []byte) {})
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = client.Request(ctx, "scan.decoded.test", []byte("data"))
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = client.RTT()
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestWaitForConnection_Timeout(t *testing.T) {
	client, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = client.WaitForConnection(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection timeout")
}

// Test metrics wiring reports status transitions
func TestWithMetrics(t *testing.T) {
	registry := metric.NewMetricsRegistry()

	client, err := NewClient("nats://localhost:4222",
		WithMetrics(registry.CoreMetrics()))
	require.NoError(t, err)

	client.setStatus(StatusConnected)
	client.setStatus(StatusDisconnected)

	// Gauge reflects the most recent transition
	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	found := false
	for _, fam := range families {
		if fam.GetName() == "scanstream_nats_connected" {
			found = true
			require.Len(t, fam.GetMetric(), 1)
			assert.Equal(t, float64(0), fam.GetMetric()[0].GetGauge().GetValue())
		}
	}
	assert.True(t, found, "expected scanstream_nats_connected gauge")
}

func TestWithMetrics_NilDisables(t *testing.T) {
	client, err := NewClient("nats://localhost:4222", WithMetrics(nil))
	require.NoError(t, err)

	// Should not panic without a registry
	client.setStatus(StatusConnected)
	client.handleReconnect(nil)
}

// Test close is idempotent
func TestClose_Idempotent(t *testing.T) {
	client, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, client.Close(ctx))
	assert.NoError(t, client.Close(ctx))
}

// Test concurrent failure recording stays consistent
func TestRecordFailure_Concurrent(t *testing.T) {
	client, err := NewClient("nats://invalid:4222")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.recordFailure()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(20), client.Failures())
	assert.Equal(t, StatusCircuitOpen, client.Status())
}

func TestGetStatus(t *testing.T) {
	client, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	client.recordFailure()

	status := client.GetStatus()
	require.NotNil(t, status)
	assert.Equal(t, StatusDisconnected, status.Status)
	assert.Equal(t, int32(1), status.FailureCount)
	assert.False(t, status.LastFailureTime.IsZero())
}

func TestHealthChangeCallback(t *testing.T) {
	var mu sync.Mutex
	var transitions []bool

	client, err := NewClient("nats://localhost:4222",
		WithHealthChangeCallback(func(healthy bool) {
			mu.Lock()
			transitions = append(transitions, healthy)
			mu.Unlock()
		}))
	require.NoError(t, err)

	client.handleDisconnect(nil, fmt.Errorf("connection reset"))
	client.handleClosed(nil)

	// Handlers dispatch callbacks on separate goroutines
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(transitions) == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{false, false}, transitions)
}
