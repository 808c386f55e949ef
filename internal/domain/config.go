package domain

import "time"

// Config is the resolved process configuration.
type Config struct {
	Server              ServerInfo
	LogLevel            string
	DrainTimeoutSeconds int
	Observability       ObservabilityConfig
}

// ServerInfo is reported to clients during initialization.
type ServerInfo struct {
	Name    string
	Version string
}

// ObservabilityConfig controls the optional metrics/health listener.
// The listener only starts when at least one endpoint is enabled.
type ObservabilityConfig struct {
	ListenAddress string
	Metrics       bool
	Healthz       bool
}

func (c ObservabilityConfig) Enabled() bool {
	return c.Metrics || c.Healthz
}

func (c Config) DrainTimeout() time.Duration {
	return time.Duration(c.DrainTimeoutSeconds) * time.Second
}

// DefaultConfig returns the configuration used when no file or override is given.
func DefaultConfig() Config {
	return Config{
		Server: ServerInfo{
			Name:    DefaultServerName,
			Version: DefaultServerVersion,
		},
		LogLevel:            DefaultLogLevel,
		DrainTimeoutSeconds: DefaultDrainTimeoutSeconds,
		Observability: ObservabilityConfig{
			ListenAddress: DefaultObservabilityListenAddress,
		},
	}
}
