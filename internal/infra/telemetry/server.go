package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"b2bizzio/internal/domain"
)

const (
	metricsPath = "/metrics"
	healthzPath = "/healthz"

	observabilityShutdownTimeout = 5 * time.Second
)

// HTTPServerOptions selects which side endpoints of the stdio server are
// exposed over TCP. Nothing listens unless at least one is enabled.
type HTTPServerOptions struct {
	Addr          string
	EnableMetrics bool
	EnableHealthz bool
	Health        *HealthTracker
	Registry      prometheus.Gatherer
}

func (o HTTPServerOptions) enabled() bool {
	return o.EnableMetrics || o.EnableHealthz
}

// StartHTTPServer binds the observability address and serves until ctx ends.
// A bind failure is returned immediately; the MCP session never depends on
// this listener.
func StartHTTPServer(ctx context.Context, opts HTTPServerOptions, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !opts.enabled() {
		return nil
	}
	addr := opts.Addr
	if addr == "" {
		addr = domain.DefaultObservabilityListenAddress
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("observability server failed to start: %w", err)
	}

	server := &http.Server{
		Handler:           observabilityMux(opts),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("observability endpoints up",
		zap.String("addr", listener.Addr().String()),
		zap.Bool("metrics", opts.EnableMetrics),
		zap.Bool("healthz", opts.EnableHealthz),
	)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("observability server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), observabilityShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("observability endpoints did not stop cleanly", zap.Error(err))
		return err
	}
	logger.Debug("observability endpoints down")
	return nil
}

func observabilityMux(opts HTTPServerOptions) *http.ServeMux {
	mux := http.NewServeMux()
	if opts.EnableMetrics {
		gatherer := opts.Registry
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		mux.Handle(metricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	if opts.EnableHealthz {
		mux.Handle(healthzPath, healthHandler(opts.Health))
	}
	return mux
}

// healthHandler answers 200 only while a client session is connected; any
// other lifecycle state is 503 with the state in the body.
func healthHandler(tracker *HealthTracker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		report := HealthReport{Status: "ok", State: domain.StateConnected}
		if tracker != nil {
			report = tracker.Report()
		}

		code := http.StatusOK
		if report.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(code)
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(report)
	})
}
