package app

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"b2bizzio/internal/capabilities"
	"b2bizzio/internal/domain"
	"b2bizzio/internal/infra/lifecycle"
	"b2bizzio/internal/infra/registry"
	"b2bizzio/internal/infra/telemetry"
)

func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registry.MustRegister(prometheus.NewGoCollector())
	return registry
}

// NewMetrics records into registry only when the metrics endpoint is enabled.
func NewMetrics(cfg domain.Config, registry *prometheus.Registry) domain.Metrics {
	if !cfg.Observability.Metrics {
		return telemetry.NewNoopMetrics()
	}
	return telemetry.NewPrometheusMetrics(registry)
}

func NewHealthTracker() *telemetry.HealthTracker {
	return telemetry.NewHealthTracker()
}

// NewCapabilityRegistry builds the registry holding every capability this
// server exposes.
func NewCapabilityRegistry(logger *zap.Logger) (*registry.Registry, error) {
	reg := registry.New(logger)
	if err := capabilities.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// NewMCPServer binds the registry to a fresh SDK server. The SDK's own slog
// output stays disabled; request logging goes through the receiving middleware.
func NewMCPServer(cfg domain.Config, reg *registry.Registry, metrics domain.Metrics, logger *zap.Logger) (*mcp.Server, error) {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, nil)
	if err := reg.Bind(server); err != nil {
		return nil, err
	}
	server.AddReceivingMiddleware(telemetry.RequestMiddleware(logger, metrics))
	return server, nil
}

func NewTransport() mcp.Transport {
	return &mcp.StdioTransport{}
}

func NewController(
	cfg domain.Config,
	server *mcp.Server,
	transport mcp.Transport,
	metrics domain.Metrics,
	health *telemetry.HealthTracker,
	logging Logging,
) *lifecycle.Controller {
	return lifecycle.NewController(server, transport, lifecycle.ControllerOptions{
		Logger:       NewLogger(logging),
		Notices:      NewNoticeLogger(logging),
		Metrics:      metrics,
		Health:       health,
		DrainTimeout: cfg.DrainTimeout(),
	})
}
