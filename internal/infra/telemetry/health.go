package telemetry

import (
	"sync"
	"time"

	"b2bizzio/internal/domain"
)

// HealthReport is served by /healthz.
type HealthReport struct {
	Status string                `json:"status"`
	State  domain.LifecycleState `json:"state"`
	Since  time.Time             `json:"since"`
}

// HealthTracker mirrors the lifecycle state for the health endpoint.
type HealthTracker struct {
	mu    sync.RWMutex
	state domain.LifecycleState
	since time.Time
	now   func() time.Time
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{
		state: domain.StateUninitialized,
		since: time.Now(),
		now:   time.Now,
	}
}

func (h *HealthTracker) SetState(state domain.LifecycleState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == state {
		return
	}
	h.state = state
	h.since = h.now()
}

// Report is ok only while a client session is connected.
func (h *HealthTracker) Report() HealthReport {
	h.mu.RLock()
	defer h.mu.RUnlock()
	status := "unavailable"
	if h.state == domain.StateConnected {
		status = "ok"
	}
	return HealthReport{Status: status, State: h.state, Since: h.since}
}
