package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"b2bizzio/internal/domain"
	"b2bizzio/internal/infra/telemetry"
)

// ControllerOptions configures a Controller. Zero values are usable.
type ControllerOptions struct {
	Logger        *zap.Logger
	// Notices carries the startup banner and shutdown notice. It should not
	// share Logger's configurable level; defaults to Logger.
	Notices       *zap.Logger
	Metrics       domain.Metrics
	Health        *telemetry.HealthTracker
	DrainTimeout  time.Duration
	OnStateChange func(domain.LifecycleState)
}

// Controller connects one MCP server to one transport and tears the session
// down when the run context is canceled or the client goes away.
type Controller struct {
	server       *mcp.Server
	transport    mcp.Transport
	logger       *zap.Logger
	notices      *zap.Logger
	metrics      domain.Metrics
	health       *telemetry.HealthTracker
	drainTimeout time.Duration
	onState      func(domain.LifecycleState)
	inflight     *InflightTracker

	mu    sync.Mutex
	state domain.LifecycleState
	ran   bool
}

func NewController(server *mcp.Server, transport mcp.Transport, opts ControllerOptions) *Controller {
	if server == nil {
		panic("lifecycle.Controller requires a server")
	}
	if transport == nil {
		panic("lifecycle.Controller requires a transport")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notices := opts.Notices
	if notices == nil {
		notices = logger
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	drain := opts.DrainTimeout
	if drain < 0 {
		drain = 0
	}

	c := &Controller{
		server:       server,
		transport:    transport,
		logger:       logger.Named("lifecycle"),
		notices:      notices.Named("lifecycle"),
		metrics:      metrics,
		health:       opts.Health,
		drainTimeout: drain,
		onState:      opts.OnStateChange,
		inflight:     NewInflightTracker(),
		state:        domain.StateUninitialized,
	}
	server.AddReceivingMiddleware(c.inflight.Middleware())
	return c
}

func (c *Controller) State() domain.LifecycleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Inflight reports the number of requests currently being handled.
func (c *Controller) Inflight() int {
	return c.inflight.Count()
}

// Run connects the server and blocks until shutdown. It returns an error only
// when the connection could not be established; a canceled ctx or a client
// disconnect both end in a clean nil return.
func (c *Controller) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.ran {
		c.mu.Unlock()
		return domain.E(domain.CodeFailedPrecond, "lifecycle.Run", "controller already ran", nil)
	}
	c.ran = true
	c.mu.Unlock()

	c.logger.Debug("connecting transport", telemetry.EventField(telemetry.EventConnectAttempt))
	// The session outlives ctx so that shutdown can drain before closing it.
	session, err := c.server.Connect(context.WithoutCancel(ctx), c.transport, nil)
	if err != nil {
		c.logger.Error("connect failed", telemetry.EventField(telemetry.EventConnectFailure), zap.Error(err))
		c.transition(domain.StateTerminated)
		return domain.E(domain.CodeUnavailable, "lifecycle.Run", fmt.Sprintf("connect transport: %v", err), err)
	}
	c.transition(domain.StateConnected)
	c.notices.Info(domain.BannerRunning, telemetry.EventField(telemetry.EventConnectSuccess))

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- session.Wait()
	}()

	select {
	case err := <-waitErr:
		fields := []zap.Field{telemetry.EventField(telemetry.EventClientClosed)}
		if err != nil && !errors.Is(err, mcp.ErrConnectionClosed) {
			fields = append(fields, zap.Error(err))
		}
		c.logger.Info("client closed the session", fields...)
		c.transition(domain.StateTerminated)
		return nil
	case <-ctx.Done():
	}

	c.transition(domain.StateShuttingDown)
	c.notices.Info(domain.BannerShutdown,
		telemetry.EventField(telemetry.EventShutdownSignal),
		zap.Int("inflight", c.inflight.Count()),
	)
	c.shutdown(session)
	c.transition(domain.StateTerminated)
	return nil
}

// shutdown waits up to the drain timeout for in-flight requests, then closes
// the session. Close failures are logged and otherwise ignored.
func (c *Controller) shutdown(session *mcp.ServerSession) {
	started := time.Now()
	drainCtx, cancel := context.WithTimeout(context.Background(), c.drainTimeout)
	defer cancel()

	if err := c.inflight.Wait(drainCtx); err != nil {
		c.logger.Warn("drain timeout elapsed with requests in flight",
			telemetry.EventField(telemetry.EventDrainTimeout),
			zap.Int("inflight", c.inflight.Count()),
			telemetry.DurationField(time.Since(started)),
		)
	}

	closed := make(chan error, 1)
	go func() {
		closed <- session.Close()
	}()

	closeTimeout := c.drainTimeout
	if closeTimeout <= 0 {
		closeTimeout = time.Second
	}
	timer := time.NewTimer(closeTimeout)
	defer timer.Stop()

	select {
	case err := <-closed:
		if err != nil {
			c.logger.Warn("session close failed", telemetry.EventField(telemetry.EventCloseFailure), zap.Error(err))
		}
	case <-timer.C:
		c.logger.Warn("session close did not finish", telemetry.EventField(telemetry.EventCloseFailure))
	}
	c.logger.Debug("session closed", telemetry.DurationField(time.Since(started)))
}

func (c *Controller) transition(next domain.LifecycleState) {
	c.mu.Lock()
	prev := c.state
	if !domain.CanTransition(prev, next) {
		c.mu.Unlock()
		c.logger.Warn("ignored lifecycle transition",
			zap.String("from", string(prev)),
			telemetry.StateField(next),
		)
		return
	}
	c.state = next
	c.mu.Unlock()

	c.logger.Debug("lifecycle transition", zap.String("from", string(prev)), telemetry.StateField(next))
	c.metrics.SetLifecycleState(next)
	if c.health != nil {
		c.health.SetState(next)
	}
	if c.onState != nil {
		c.onState(next)
	}
}
