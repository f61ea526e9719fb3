package health

import (
	"testing"
	"time"
)

func TestStatus_Predicates(t *testing.T) {
	tests := []struct {
		name          string
		status        string
		wantHealthy   bool
		wantDegraded  bool
		wantUnhealthy bool
	}{
		{"healthy", "healthy", true, false, false},
		{"degraded", "degraded", false, true, false},
		{"unhealthy", "unhealthy", false, false, true},
		{"unknown string", "exploded", false, false, false},
		{"empty", "", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Status{Status: tt.status}
			if got := s.IsHealthy(); got != tt.wantHealthy {
				t.Errorf("IsHealthy() = %v, want %v", got, tt.wantHealthy)
			}
			if got := s.IsDegraded(); got != tt.wantDegraded {
				t.Errorf("IsDegraded() = %v, want %v", got, tt.wantDegraded)
			}
			if got := s.IsUnhealthy(); got != tt.wantUnhealthy {
				t.Errorf("IsUnhealthy() = %v, want %v", got, tt.wantUnhealthy)
			}
		})
	}
}

func TestStatus_WithSubStatus(t *testing.T) {
	parent := NewHealthy("pipeline", "all good")
	child := NewHealthy("natsclient", "connected")

	updated := parent.WithSubStatus(child)

	if len(parent.SubStatuses) != 0 {
		t.Errorf("WithSubStatus should not mutate the receiver, got %d sub-statuses", len(parent.SubStatuses))
	}
	if len(updated.SubStatuses) != 1 {
		t.Fatalf("Expected 1 sub-status, got %d", len(updated.SubStatuses))
	}
	if updated.SubStatuses[0].Component != "natsclient" {
		t.Errorf("Expected sub-status component 'natsclient', got %s", updated.SubStatuses[0].Component)
	}
}

func TestStatus_WithSubStatus_NoSharedBacking(t *testing.T) {
	parent := NewHealthy("pipeline", "ok")
	a := parent.WithSubStatus(NewHealthy("feed", "ok"))
	b := a.WithSubStatus(NewHealthy("gateway", "ok"))
	c := a.WithSubStatus(NewUnhealthy("gateway", "down"))

	if b.SubStatuses[1].Status == c.SubStatuses[1].Status {
		t.Error("Sibling copies should not share the sub-status backing array")
	}
}

func TestStatus_TimestampSet(t *testing.T) {
	before := time.Now()
	s := NewHealthy("feed", "listening")
	if s.Timestamp.Before(before) {
		t.Error("NewHealthy should stamp the current time")
	}
}
