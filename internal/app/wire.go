//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"b2bizzio/internal/domain"
)

func InitializeApplication(cfg domain.Config, logging Logging) (*Application, error) {
	wire.Build(AppSet)
	return nil, nil
}
