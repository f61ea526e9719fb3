package health

import (
	"sync"
	"testing"
	"time"

	"github.com/c360/scanstream/metric"
)

func TestNewMonitor(t *testing.T) {
	monitor := NewMonitor(nil)

	if monitor == nil {
		t.Fatal("NewMonitor() returned nil")
	}
	if monitor.Count() != 0 {
		t.Errorf("New monitor should have 0 components, got %d", monitor.Count())
	}
	if !monitor.IsHealthy() {
		t.Error("Empty monitor should be healthy")
	}
}

func TestMonitor_Update(t *testing.T) {
	monitor := NewMonitor(nil)

	status := Status{
		Component: "wrong-name",
		Status:    "healthy",
		Message:   "listening",
	}

	monitor.Update("websocket-feed", status)

	retrieved, exists := monitor.Get("websocket-feed")
	if !exists {
		t.Fatal("Component should exist after update")
	}
	if retrieved.Component != "websocket-feed" {
		t.Errorf("Update should force the component name, got %s", retrieved.Component)
	}
	if retrieved.Timestamp.IsZero() {
		t.Error("Update should set timestamp if not provided")
	}
}

func TestMonitor_UpdatePreservesTimestamp(t *testing.T) {
	monitor := NewMonitor(nil)
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	monitor.Update("natsclient", Status{Status: "healthy", Timestamp: stamp})

	retrieved, _ := monitor.Get("natsclient")
	if !retrieved.Timestamp.Equal(stamp) {
		t.Errorf("Update should keep a provided timestamp, got %v", retrieved.Timestamp)
	}
}

func TestMonitor_ConvenienceUpdates(t *testing.T) {
	monitor := NewMonitor(nil)

	monitor.UpdateHealthy("natsclient", "connected")
	monitor.UpdateDegraded("websocket-feed", "reconnecting")
	monitor.UpdateUnhealthy("natspub-output", "queue stalled")

	if s, _ := monitor.Get("natsclient"); !s.IsHealthy() {
		t.Error("Expected natsclient healthy")
	}
	if s, _ := monitor.Get("websocket-feed"); !s.IsDegraded() {
		t.Error("Expected websocket-feed degraded")
	}
	if s, _ := monitor.Get("natspub-output"); !s.IsUnhealthy() {
		t.Error("Expected natspub-output unhealthy")
	}
}

func TestMonitor_IsHealthy(t *testing.T) {
	monitor := NewMonitor(nil)

	monitor.UpdateHealthy("natsclient", "connected")
	monitor.UpdateHealthy("websocket-feed", "listening")

	if !monitor.IsHealthy() {
		t.Error("All components healthy, monitor should be healthy")
	}

	monitor.UpdateDegraded("natsclient", "reconnecting")

	if monitor.IsHealthy() {
		t.Error("Degraded component should make the monitor unhealthy")
	}
}

func TestMonitor_GetAll(t *testing.T) {
	monitor := NewMonitor(nil)
	monitor.UpdateHealthy("a", "ok")
	monitor.UpdateHealthy("b", "ok")

	all := monitor.GetAll()
	if len(all) != 2 {
		t.Fatalf("Expected 2 statuses, got %d", len(all))
	}

	// Mutating the copy must not affect the monitor
	delete(all, "a")
	if monitor.Count() != 2 {
		t.Error("GetAll should return a copy")
	}
}

func TestMonitor_Remove(t *testing.T) {
	monitor := NewMonitor(nil)
	monitor.UpdateHealthy("natsclient", "connected")

	monitor.Remove("natsclient")

	if _, exists := monitor.Get("natsclient"); exists {
		t.Error("Component should be gone after Remove")
	}
}

func TestMonitor_AggregateHealth(t *testing.T) {
	monitor := NewMonitor(nil)
	monitor.UpdateHealthy("websocket-feed", "listening")
	monitor.UpdateUnhealthy("natsclient", "connection refused")

	agg := monitor.AggregateHealth("scanstream")

	if agg.Component != "scanstream" {
		t.Errorf("Expected component 'scanstream', got %s", agg.Component)
	}
	if !agg.IsUnhealthy() {
		t.Errorf("Expected unhealthy aggregate, got %s", agg.Status)
	}
	if len(agg.SubStatuses) != 2 {
		t.Fatalf("Expected 2 sub-statuses, got %d", len(agg.SubStatuses))
	}
	// Sub-statuses come back in name order
	if agg.SubStatuses[0].Component != "natsclient" {
		t.Errorf("Expected sorted sub-statuses, first was %s", agg.SubStatuses[0].Component)
	}
}

func TestMonitor_ListComponents(t *testing.T) {
	monitor := NewMonitor(nil)
	monitor.UpdateHealthy("websocket-feed", "ok")
	monitor.UpdateHealthy("http-gateway", "ok")

	names := monitor.ListComponents()
	if len(names) != 2 {
		t.Fatalf("Expected 2 names, got %d", len(names))
	}
	if names[0] != "http-gateway" || names[1] != "websocket-feed" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}

func TestMonitor_Clear(t *testing.T) {
	monitor := NewMonitor(nil)
	monitor.UpdateHealthy("a", "ok")
	monitor.Clear()

	if monitor.Count() != 0 {
		t.Errorf("Expected 0 components after Clear, got %d", monitor.Count())
	}
}

func TestMonitor_RecordsHealthGauge(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	monitor := NewMonitor(registry.CoreMetrics())

	monitor.UpdateHealthy("natsclient", "connected")
	monitor.UpdateUnhealthy("natsclient", "gone")

	families, err := registry.PrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	found := false
	for _, fam := range families {
		if fam.GetName() != "scanstream_health_status" {
			continue
		}
		for _, m := range fam.GetMetric() {
			found = true
			if got := m.GetGauge().GetValue(); got != 0 {
				t.Errorf("Expected health gauge 0 after unhealthy update, got %v", got)
			}
		}
	}
	if !found {
		t.Error("Expected scanstream_health_status to be registered")
	}
}

func TestMonitor_ConcurrentAccess(t *testing.T) {
	monitor := NewMonitor(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			monitor.UpdateHealthy("natsclient", "connected")
		}()
		go func() {
			defer wg.Done()
			_ = monitor.IsHealthy()
			_ = monitor.GetAll()
			_ = monitor.AggregateHealth("scanstream")
		}()
	}
	wg.Wait()

	if monitor.Count() != 1 {
		t.Errorf("Expected 1 component, got %d", monitor.Count())
	}
}
