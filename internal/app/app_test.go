package app

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"b2bizzio/internal/domain"
	"b2bizzio/internal/infra/config"
)

func TestNewLogging_Levels(t *testing.T) {
	logging, err := NewLogging("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, logging.Level.Level())

	logging, err = NewLogging("debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, logging.Level.Level())

	_, err = NewLogging("verbose")
	require.Error(t, err)
}

func TestNewLogging_NoticesIgnoreConfiguredLevel(t *testing.T) {
	logging, err := NewLogging("error")
	require.NoError(t, err)
	require.NotNil(t, logging.Notices)

	assert.False(t, logging.Logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logging.Notices.Core().Enabled(zapcore.InfoLevel))

	logging.Level.SetLevel(zapcore.ErrorLevel)
	assert.True(t, logging.Notices.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logging.Notices.Core().Enabled(zapcore.DebugLevel))
}

func TestNewNoticeLogger_FallsBackToLogger(t *testing.T) {
	logger := zap.NewExample()
	assert.Same(t, logger, NewNoticeLogger(Logging{Logger: logger}))
	assert.NotNil(t, NewNoticeLogger(Logging{}))
}

func TestApp_Capabilities(t *testing.T) {
	application := New(Logging{Logger: zap.NewNop(), Level: zap.NewAtomicLevel()})

	set, err := application.Capabilities()
	require.NoError(t, err)
	require.Len(t, set.Tools, 2)
	assert.Equal(t, domain.ToolGetInfo, set.Tools[0].Name)
	assert.Equal(t, domain.ToolEcho, set.Tools[1].Name)
	require.Len(t, set.Resources, 1)
	assert.Equal(t, domain.ResourceWelcomeURI, set.Resources[0].URI)
	require.Len(t, set.Prompts, 1)
	assert.Equal(t, domain.PromptBusinessAnalysis, set.Prompts[0].Name)
}

func TestApp_ValidateConfig(t *testing.T) {
	application := New(Logging{Logger: zap.NewNop(), Level: zap.NewAtomicLevel()})

	cfg, err := application.ValidateConfig(context.Background(), ValidateConfig{})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel: loud\n"), 0o600))
	_, err = application.ValidateConfig(context.Background(), ValidateConfig{ConfigPath: path})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestApp_ApplyLevelFollowsConfig(t *testing.T) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	application := New(Logging{Logger: zap.NewNop(), Level: level})

	application.applyLevel(domain.Config{LogLevel: "warn"})
	assert.Equal(t, zapcore.WarnLevel, level.Level())

	application.applyLevel(domain.Config{LogLevel: "bogus"})
	assert.Equal(t, zapcore.WarnLevel, level.Level())
}

func TestFlagChanged(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(config.FlagLogLevel, "info", "")

	assert.False(t, flagChanged(nil, config.FlagLogLevel))
	assert.False(t, flagChanged(flags, config.FlagLogLevel))
	assert.False(t, flagChanged(flags, "missing"))

	require.NoError(t, flags.Parse([]string{"--log-level=debug"}))
	assert.True(t, flagChanged(flags, config.FlagLogLevel))
}

func TestApplication_ServesUntilCanceled(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Observability = domain.ObservabilityConfig{
		ListenAddress: freeAddr(t),
		Metrics:       true,
		Healthz:       true,
	}
	application, clientTransport := newTestApplication(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- application.Run(ctx)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "0.1.0"}, nil)
	session, err := client.Connect(context.Background(), clientTransport, nil)
	require.NoError(t, err)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      domain.ToolEcho,
		Arguments: map[string]any{"message": "ping"},
	})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	assert.Equal(t, "Echo: ping", res.Content[0].(*mcp.TextContent).Text)

	healthURL := "http://" + cfg.Observability.ListenAddress + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthURL)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	metricsResp, err := http.Get("http://" + cfg.Observability.ListenAddress + "/metrics")
	require.NoError(t, err)
	_ = metricsResp.Body.Close()
	assert.Equal(t, http.StatusOK, metricsResp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("application did not stop after cancel")
	}
	assert.Equal(t, domain.StateTerminated, application.State())

	_, err = http.Get(healthURL)
	assert.Error(t, err, "observability listener should stop with the session")
}

func TestApplication_ClientDisconnectEndsRun(t *testing.T) {
	application, clientTransport := newTestApplication(t, domain.DefaultConfig())

	done := make(chan error, 1)
	go func() {
		done <- application.Run(context.Background())
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "0.1.0"}, nil)
	session, err := client.Connect(context.Background(), clientTransport, nil)
	require.NoError(t, err)
	require.NoError(t, session.Close())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("application did not stop after client disconnect")
	}
	assert.Equal(t, domain.StateTerminated, application.State())
}

func newTestApplication(t *testing.T, cfg domain.Config) (*Application, mcp.Transport) {
	t.Helper()
	logger := zap.NewNop()
	registry := NewMetricsRegistry()
	metrics := NewMetrics(cfg, registry)
	health := NewHealthTracker()

	capabilities, err := NewCapabilityRegistry(logger)
	require.NoError(t, err)
	server, err := NewMCPServer(cfg, capabilities, metrics, logger)
	require.NoError(t, err)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	controller := NewController(cfg, server, serverTransport, metrics, health, Logging{Logger: logger, Level: zap.NewAtomicLevel()})

	return NewApplication(ApplicationOptions{
		Config:       cfg,
		Logger:       logger,
		Registry:     registry,
		Health:       health,
		Capabilities: capabilities,
		Controller:   controller,
	}), clientTransport
}

func freeAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}
