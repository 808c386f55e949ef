package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"b2bizzio/internal/domain"
	"b2bizzio/internal/infra/hashutil"
	"b2bizzio/internal/infra/lifecycle"
	"b2bizzio/internal/infra/registry"
	"b2bizzio/internal/infra/telemetry"
)

// Application wires the server runtime and its dependencies.
type Application struct {
	cfg          domain.Config
	logger       *zap.Logger
	metrics      *prometheus.Registry
	health       *telemetry.HealthTracker
	capabilities *registry.Registry
	controller   *lifecycle.Controller
}

// ApplicationOptions captures dependencies and settings for Application.
type ApplicationOptions struct {
	Config       domain.Config
	Logger       *zap.Logger
	Registry     *prometheus.Registry
	Health       *telemetry.HealthTracker
	Capabilities *registry.Registry
	Controller   *lifecycle.Controller
}

// NewApplication constructs the application runtime.
func NewApplication(opts ApplicationOptions) *Application {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{
		cfg:          opts.Config,
		logger:       logger.Named("app"),
		metrics:      opts.Registry,
		health:       opts.Health,
		capabilities: opts.Capabilities,
		controller:   opts.Controller,
	}
}

// Run serves until ctx is canceled or the client disconnects. The optional
// observability listener lives exactly as long as the session.
func (a *Application) Run(ctx context.Context) error {
	set := a.capabilities.Descriptors()
	a.logger.Info("server configured",
		zap.String("name", a.cfg.Server.Name),
		zap.String("version", a.cfg.Server.Version),
		zap.Int("tools", len(set.Tools)),
		zap.Int("resources", len(set.Resources)),
		zap.Int("prompts", len(set.Prompts)),
		zap.String("capabilities", hashutil.CapabilityETag(a.logger, set)),
	)

	obsCtx, stopObservability := context.WithCancel(ctx)
	obsDone := make(chan struct{})
	if a.cfg.Observability.Enabled() {
		go func() {
			defer close(obsDone)
			err := telemetry.StartHTTPServer(obsCtx, telemetry.HTTPServerOptions{
				Addr:          a.cfg.Observability.ListenAddress,
				EnableMetrics: a.cfg.Observability.Metrics,
				EnableHealthz: a.cfg.Observability.Healthz,
				Health:        a.health,
				Registry:      a.metrics,
			}, a.logger)
			if err != nil {
				a.logger.Warn("observability server unavailable", zap.Error(err))
			}
		}()
	} else {
		close(obsDone)
	}
	defer func() {
		stopObservability()
		<-obsDone
	}()

	return a.controller.Run(ctx)
}

// State reports the lifecycle state of the served session.
func (a *Application) State() domain.LifecycleState {
	return a.controller.State()
}
