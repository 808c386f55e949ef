//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
)

var CoreInfraSet = wire.NewSet(
	NewLogger,
	NewMetricsRegistry,
	NewMetrics,
	NewHealthTracker,
	NewTransport,
)

var ServerSet = wire.NewSet(
	NewCapabilityRegistry,
	NewMCPServer,
	NewController,
)

var AppSet = wire.NewSet(
	CoreInfraSet,
	ServerSet,
	wire.Struct(new(ApplicationOptions), "*"),
	NewApplication,
)
