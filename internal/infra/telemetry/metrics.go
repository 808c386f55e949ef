package telemetry

import "b2bizzio/internal/domain"

// NoopMetrics is used when the observability listener is disabled.
type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveCapability(_ domain.CapabilityMetric) {}

func (n *NoopMetrics) AddInflightRequests(_ int) {}

func (n *NoopMetrics) SetLifecycleState(_ domain.LifecycleState) {}

var _ domain.Metrics = (*NoopMetrics)(nil)
