package app

import (
	"context"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"b2bizzio/internal/domain"
	"b2bizzio/internal/infra/config"
	"b2bizzio/internal/infra/hashutil"
)

// App is the entry point used by the command line.
type App struct {
	logging Logging
	logger  *zap.Logger
}

// ServeConfig selects the configuration sources for serve.
type ServeConfig struct {
	ConfigPath string
	Flags      *pflag.FlagSet
}

// ValidateConfig selects the configuration sources for validate.
type ValidateConfig struct {
	ConfigPath string
	Flags      *pflag.FlagSet
}

func New(logging Logging) *App {
	logger := NewLogger(logging)
	return &App{
		logging: logging,
		logger:  logger.Named("app"),
	}
}

// Serve loads configuration, builds the server and serves over stdio until
// ctx is canceled or the client disconnects.
func (a *App) Serve(ctx context.Context, cfg ServeConfig) error {
	base := NewLogger(a.logging)
	loader := config.NewLoader(base)

	resolved, err := loader.Load(ctx, cfg.ConfigPath, cfg.Flags)
	if err != nil {
		return err
	}
	a.applyLevel(resolved)

	a.logger.Info("configuration loaded",
		zap.String("config", cfg.ConfigPath),
		zap.String("logLevel", resolved.LogLevel),
		zap.Duration("drainTimeout", resolved.DrainTimeout()),
		zap.Bool("observability", resolved.Observability.Enabled()),
		zap.String("etag", hashutil.ConfigETag(a.logger, resolved)),
	)

	application, err := InitializeApplication(resolved, a.logging)
	if err != nil {
		return err
	}

	if cfg.ConfigPath != "" && !flagChanged(cfg.Flags, config.FlagLogLevel) {
		loader.WatchLogLevel(ctx, cfg.ConfigPath, a.logging.Level)
	}

	return application.Run(ctx)
}

// Capabilities returns the descriptors the server would expose, without
// connecting any transport.
func (a *App) Capabilities() (domain.CapabilitySet, error) {
	reg, err := NewCapabilityRegistry(a.logger)
	if err != nil {
		return domain.CapabilitySet{}, err
	}
	return reg.Descriptors(), nil
}

func (a *App) applyLevel(cfg domain.Config) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return
	}
	a.logging.Level.SetLevel(level)
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	if flags == nil {
		return false
	}
	flag := flags.Lookup(name)
	return flag != nil && flag.Changed
}
