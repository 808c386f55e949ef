package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"b2bizzio/internal/domain"
)

// EnvPrefix namespaces environment overrides, e.g. B2BIZZIO_LOGLEVEL.
const EnvPrefix = "B2BIZZIO"

// Flag names bound onto config keys when present on the flag set.
const (
	FlagLogLevel      = "log-level"
	FlagDrainTimeout  = "drain-timeout"
	FlagMetrics       = "metrics"
	FlagHealthz       = "healthz"
	FlagListenAddress = "observability-addr"
)

var flagKeys = map[string]string{
	FlagLogLevel:      "logLevel",
	FlagDrainTimeout:  "drainTimeoutSeconds",
	FlagMetrics:       "observability.metrics",
	FlagHealthz:       "observability.healthz",
	FlagListenAddress: "observability.listenAddress",
}

type Loader struct {
	logger *zap.Logger
}

type rawConfig struct {
	Server              rawServerInfo          `mapstructure:"server"`
	LogLevel            string                 `mapstructure:"logLevel"`
	DrainTimeoutSeconds int                    `mapstructure:"drainTimeoutSeconds"`
	Observability       rawObservabilityConfig `mapstructure:"observability"`
}

type rawServerInfo struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

type rawObservabilityConfig struct {
	ListenAddress string `mapstructure:"listenAddress"`
	Metrics       bool   `mapstructure:"metrics"`
	Healthz       bool   `mapstructure:"healthz"`
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("config")}
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", domain.DefaultServerName)
	v.SetDefault("server.version", domain.DefaultServerVersion)
	v.SetDefault("logLevel", domain.DefaultLogLevel)
	v.SetDefault("drainTimeoutSeconds", domain.DefaultDrainTimeoutSeconds)
	v.SetDefault("observability.listenAddress", domain.DefaultObservabilityListenAddress)
	v.SetDefault("observability.metrics", false)
	v.SetDefault("observability.healthz", false)
}

// Load resolves configuration with precedence flags > env > file > defaults.
// path and flags are both optional.
func (l *Loader) Load(ctx context.Context, path string, flags *pflag.FlagSet) (domain.Config, error) {
	v := newConfigViper()

	if path != "" {
		expanded, err := l.readFile(path)
		if err != nil {
			return domain.Config{}, err
		}
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return domain.Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return domain.Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return domain.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.Config{}, err
	}

	cfg, errs := normalizeConfig(raw)
	if len(errs) > 0 {
		return domain.Config{}, domain.E(domain.CodeInvalidArgument, "config.Load", strings.Join(errs, "; "), domain.ErrInvalidArgument)
	}
	return cfg, nil
}

// readFile returns the env-expanded, schema-checked file contents.
func (l *Loader) readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}
	expanded, missing, err := expandConfigEnv(data)
	if err != nil {
		return "", err
	}
	if len(missing) > 0 {
		l.logger.Warn("missing environment variables in config", zap.String("path", path), zap.Strings("missing", missing))
	}
	if err := validateConfigSchema(expanded); err != nil {
		return "", err
	}
	return expanded, nil
}

func normalizeConfig(raw rawConfig) (domain.Config, []string) {
	var errs []string

	cfg := domain.Config{
		Server: domain.ServerInfo{
			Name:    strings.TrimSpace(raw.Server.Name),
			Version: strings.TrimSpace(raw.Server.Version),
		},
		LogLevel:            strings.ToLower(strings.TrimSpace(raw.LogLevel)),
		DrainTimeoutSeconds: raw.DrainTimeoutSeconds,
		Observability: domain.ObservabilityConfig{
			ListenAddress: strings.TrimSpace(raw.Observability.ListenAddress),
			Metrics:       raw.Observability.Metrics,
			Healthz:       raw.Observability.Healthz,
		},
	}

	if cfg.Server.Name == "" {
		errs = append(errs, "server.name must not be empty")
	}
	if cfg.Server.Version == "" {
		errs = append(errs, "server.version must not be empty")
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.DrainTimeoutSeconds < 0 {
		errs = append(errs, "drainTimeoutSeconds must be >= 0")
	}
	if cfg.Observability.Enabled() {
		if _, _, err := net.SplitHostPort(cfg.Observability.ListenAddress); err != nil {
			errs = append(errs, fmt.Sprintf("observability.listenAddress %q: %v", cfg.Observability.ListenAddress, err))
		}
	}
	return cfg, errs
}

var errEmptyLevel = errors.New("logLevel must not be empty")

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(value string) (zapcore.Level, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return zapcore.InfoLevel, errEmptyLevel
	}
	switch value {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("logLevel %q must be one of debug, info, warn, error", value)
	}
}
