package app

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"b2bizzio/internal/infra/config"
)

// Logging bundles the process logger, the level it is filtered by, and the
// notice logger for lifecycle messages that must reach stderr at any level.
type Logging struct {
	Logger  *zap.Logger
	Notices *zap.Logger
	Level   zap.AtomicLevel
}

// NewLogging builds the production JSON logger. Both log and error output go
// to stderr because stdout carries the protocol stream.
func NewLogging(level string) (Logging, error) {
	parsed := zapcore.InfoLevel
	if level != "" {
		var err error
		parsed, err = config.ParseLevel(level)
		if err != nil {
			return Logging{}, err
		}
	}
	atomic := zap.NewAtomicLevelAt(parsed)

	cfg := zap.NewProductionConfig()
	cfg.Level = atomic
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return Logging{}, fmt.Errorf("build logger: %w", err)
	}

	noticeCfg := cfg
	noticeCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	noticeCfg.Sampling = nil
	notices, err := noticeCfg.Build()
	if err != nil {
		return Logging{}, fmt.Errorf("build notice logger: %w", err)
	}
	return Logging{Logger: logger, Notices: notices, Level: atomic}, nil
}

// NewLogger returns the logger from a Logging bundle.
func NewLogger(logging Logging) *zap.Logger {
	if logging.Logger == nil {
		return zap.NewNop()
	}
	return logging.Logger
}

// NewNoticeLogger returns the fixed-level notice logger, falling back to the
// process logger.
func NewNoticeLogger(logging Logging) *zap.Logger {
	if logging.Notices == nil {
		return NewLogger(logging)
	}
	return logging.Notices
}
