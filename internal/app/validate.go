package app

import (
	"context"

	"go.uber.org/zap"

	"b2bizzio/internal/domain"
	"b2bizzio/internal/infra/config"
	"b2bizzio/internal/infra/hashutil"
)

// ValidateConfig validates the configuration and the capability set without
// serving.
func (a *App) ValidateConfig(ctx context.Context, cfg ValidateConfig) (domain.Config, error) {
	loader := config.NewLoader(NewLogger(a.logging))
	resolved, err := loader.Load(ctx, cfg.ConfigPath, cfg.Flags)
	if err != nil {
		return domain.Config{}, err
	}

	set, err := a.Capabilities()
	if err != nil {
		return domain.Config{}, err
	}

	a.logger.Info("configuration validated",
		zap.String("config", cfg.ConfigPath),
		zap.String("server", resolved.Server.Name),
		zap.Int("tools", len(set.Tools)),
		zap.Int("resources", len(set.Resources)),
		zap.Int("prompts", len(set.Prompts)),
		zap.String("capabilities", hashutil.CapabilityETag(a.logger, set)),
	)
	return resolved, nil
}
