package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"b2bizzio/internal/domain"
)

type PrometheusMetrics struct {
	capabilityCalls    *prometheus.CounterVec
	capabilityDuration *prometheus.HistogramVec
	inflightRequests   prometheus.Gauge
	lifecycleState     *prometheus.GaugeVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		capabilityCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "b2bizzio_capability_calls_total",
				Help: "Total number of capability calls served",
			},
			[]string{"kind", "name", "status"},
		),
		capabilityDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "b2bizzio_capability_duration_seconds",
				Help:    "Duration of capability calls in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"kind", "name"},
		),
		inflightRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "b2bizzio_inflight_requests",
				Help: "Number of MCP requests currently being handled",
			},
		),
		lifecycleState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "b2bizzio_lifecycle_state",
				Help: "Current server lifecycle state (1 for the active state)",
			},
			[]string{"state"},
		),
	}
}

func (p *PrometheusMetrics) ObserveCapability(metric domain.CapabilityMetric) {
	status := metric.Status
	if status == "" {
		status = domain.CallStatusSuccess
	}
	kind := string(metric.Kind)
	p.capabilityCalls.WithLabelValues(kind, metric.Name, string(status)).Inc()
	p.capabilityDuration.WithLabelValues(kind, metric.Name).Observe(metric.Duration.Seconds())
}

func (p *PrometheusMetrics) AddInflightRequests(delta int) {
	p.inflightRequests.Add(float64(delta))
}

func (p *PrometheusMetrics) SetLifecycleState(state domain.LifecycleState) {
	for _, candidate := range domain.AllLifecycleStates {
		value := 0.0
		if candidate == state {
			value = 1
		}
		p.lifecycleState.WithLabelValues(string(candidate)).Set(value)
	}
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
