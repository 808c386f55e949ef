package domain

import "time"

// CallStatus labels the outcome of a capability call.
type CallStatus string

const (
	// CallStatusSuccess indicates the handler produced a result.
	CallStatusSuccess CallStatus = "success"
	// CallStatusError indicates a protocol error or a tool error result.
	CallStatusError CallStatus = "error"
)

// CapabilityMetric captures one served capability call.
type CapabilityMetric struct {
	Kind     CapabilityKind
	Name     string
	Status   CallStatus
	Duration time.Duration
}

// Metrics records operational metrics for capability calls.
type Metrics interface {
	ObserveCapability(metric CapabilityMetric)
	AddInflightRequests(delta int)
	SetLifecycleState(state LifecycleState)
}
