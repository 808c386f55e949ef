package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"b2bizzio/internal/domain"
)

func TestLoader_Defaults(t *testing.T) {
	cfg, err := NewLoader(zap.NewNop()).Load(context.Background(), "", nil)
	require.NoError(t, err)
	if diff := cmp.Diff(domain.DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_File(t *testing.T) {
	file := writeTempConfig(t, `
server:
	name: custom
	version: 2.0.0
logLevel: DEBUG
drainTimeoutSeconds: 9
observability:
	listenAddress: 127.0.0.1:9999
	metrics: true
`)

	cfg, err := NewLoader(nil).Load(context.Background(), file, nil)
	require.NoError(t, err)
	expect := domain.Config{
		Server:              domain.ServerInfo{Name: "custom", Version: "2.0.0"},
		LogLevel:            "debug",
		DrainTimeoutSeconds: 9,
		Observability: domain.ObservabilityConfig{
			ListenAddress: "127.0.0.1:9999",
			Metrics:       true,
		},
	}
	if diff := cmp.Diff(expect, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 9*time.Second, cfg.DrainTimeout())
}

func TestLoader_EnvExpansionInFile(t *testing.T) {
	t.Setenv("B2B_TEST_VERSION", "3.1.4")
	t.Setenv("B2B_TEST_METRICS", "true")
	file := writeTempConfig(t, `
server:
	version: ${B2B_TEST_VERSION}
observability:
	metrics: ${B2B_TEST_METRICS}
`)

	cfg, err := NewLoader(nil).Load(context.Background(), file, nil)
	require.NoError(t, err)
	assert.Equal(t, "3.1.4", cfg.Server.Version)
	assert.True(t, cfg.Observability.Metrics)
	assert.Equal(t, domain.DefaultServerName, cfg.Server.Name)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	t.Setenv("B2BIZZIO_LOGLEVEL", "warn")
	t.Setenv("B2BIZZIO_OBSERVABILITY_HEALTHZ", "true")
	file := writeTempConfig(t, `
logLevel: debug
`)

	cfg, err := NewLoader(nil).Load(context.Background(), file, nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.Observability.Healthz)
}

func TestLoader_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("B2BIZZIO_LOGLEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(FlagLogLevel, domain.DefaultLogLevel, "")
	flags.Int(FlagDrainTimeout, domain.DefaultDrainTimeoutSeconds, "")
	require.NoError(t, flags.Parse([]string{"--log-level=error", "--drain-timeout=1"}))

	cfg, err := NewLoader(nil).Load(context.Background(), "", flags)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 1, cfg.DrainTimeoutSeconds)
}

func TestLoader_ValidationErrors(t *testing.T) {
	file := writeTempConfig(t, `
server:
	name: ""
logLevel: loud
drainTimeoutSeconds: -1
`)

	_, err := NewLoader(nil).Load(context.Background(), file, nil)
	require.Error(t, err)
	// The schema rejects the enum and minimum before normalization runs.
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoader_NormalizationErrorsJoined(t *testing.T) {
	t.Setenv("B2BIZZIO_LOGLEVEL", "loud")
	t.Setenv("B2BIZZIO_SERVER_NAME", " ")
	t.Setenv("B2BIZZIO_OBSERVABILITY_METRICS", "true")
	t.Setenv("B2BIZZIO_OBSERVABILITY_LISTENADDRESS", "no-port")

	_, err := NewLoader(nil).Load(context.Background(), "", nil)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	msg := err.Error()
	assert.Contains(t, msg, "server.name must not be empty")
	assert.Contains(t, msg, `logLevel "loud"`)
	assert.Contains(t, msg, "observability.listenAddress")
	assert.Equal(t, 2, strings.Count(msg, "; "))
}

func TestLoader_UnknownKeyRejected(t *testing.T) {
	file := writeTempConfig(t, `
logLevel: info
servers: []
`)

	_, err := NewLoader(nil).Load(context.Background(), file, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader(nil).Load(ctx, "", nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		"INFO":   zapcore.InfoLevel,
		" warn ": zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
	}
	for input, want := range cases {
		got, err := ParseLevel(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("")
	require.Error(t, err)
	_, err = ParseLevel("fatal")
	require.Error(t, err)
}

func TestLoader_ReloadLogLevel(t *testing.T) {
	file := writeTempConfig(t, `
logLevel: debug
`)
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	loader := NewLoader(nil)

	loader.reloadLogLevel(context.Background(), file, level)
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	require.NoError(t, os.WriteFile(file, []byte("logLevel: nope\n"), 0o600))
	loader.reloadLogLevel(context.Background(), file, level)
	assert.Equal(t, zapcore.DebugLevel, level.Level(), "invalid reload keeps the current level")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, os.WriteFile(file, []byte("logLevel: error\n"), 0o600))
	loader.reloadLogLevel(ctx, file, level)
	assert.Equal(t, zapcore.DebugLevel, level.Level(), "canceled context skips reload")
}

func TestShouldReload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "b2bizzio.yaml")
	cases := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "write", event: fsnotify.Event{Name: file, Op: fsnotify.Write}, want: true},
		{name: "create", event: fsnotify.Event{Name: file, Op: fsnotify.Create}, want: true},
		{name: "chmod", event: fsnotify.Event{Name: file, Op: fsnotify.Chmod}},
		{name: "sibling file", event: fsnotify.Event{Name: file + ".swp", Op: fsnotify.Write}},
		{name: "empty name", event: fsnotify.Event{Op: fsnotify.Write}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, shouldReload(tc.event, file))
		})
	}
}

func TestLoader_WatchLogLevel(t *testing.T) {
	file := writeTempConfig(t, `
logLevel: info
`)
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := NewLoader(nil).WatchLogLevel(ctx, file, level)
	require.NoError(t, os.WriteFile(file, []byte("logLevel: warn\n"), 0o600))

	require.Eventually(t, func() bool {
		return level.Level() == zapcore.WarnLevel
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher still running after cancel")
	}
}

func TestLoader_WatchLogLevelWithoutPath(t *testing.T) {
	done := NewLoader(nil).WatchLogLevel(context.Background(), "", zap.NewAtomicLevel())
	select {
	case <-done:
	default:
		t.Fatal("watch without a path should return a closed channel")
	}
}

func TestExpandConfigEnv_ReportsMissing(t *testing.T) {
	expanded, missing, err := expandConfigEnv([]byte("server:\n  name: ${B2B_TEST_UNSET_VAR}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"B2B_TEST_UNSET_VAR"}, missing)
	assert.Contains(t, expanded, "name:")
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "b2bizzio.yaml")
	normalized := strings.ReplaceAll(content, "\t", "  ")
	if err := os.WriteFile(path, []byte(normalized), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}
