package main

import (
	"github.com/spf13/cobra"

	"b2bizzio/internal/app"
	"b2bizzio/internal/domain"
	"b2bizzio/internal/infra/config"
)

type rootOptions struct {
	configPath        string
	logLevel          string
	drainTimeout      int
	metrics           bool
	healthz           bool
	observabilityAddr string
}

func newRootCmd(logging app.Logging) *cobra.Command {
	opts := rootOptions{
		logLevel:          domain.DefaultLogLevel,
		drainTimeout:      domain.DefaultDrainTimeoutSeconds,
		observabilityAddr: domain.DefaultObservabilityListenAddress,
	}

	root := &cobra.Command{
		Use:           "b2bizzio",
		Short:         "B2Bizzio MCP server over stdio",
		Version:       app.Version + " (" + app.Build + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, logging, &opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to an optional YAML config file")
	flags.StringVar(&opts.logLevel, config.FlagLogLevel, opts.logLevel, "log level (debug, info, warn, error)")
	flags.IntVar(&opts.drainTimeout, config.FlagDrainTimeout, opts.drainTimeout, "seconds to wait for in-flight requests on shutdown")
	flags.BoolVar(&opts.metrics, config.FlagMetrics, false, "expose Prometheus metrics on the observability address")
	flags.BoolVar(&opts.healthz, config.FlagHealthz, false, "expose /healthz on the observability address")
	flags.StringVar(&opts.observabilityAddr, config.FlagListenAddress, opts.observabilityAddr, "listen address for metrics and health endpoints")

	root.AddCommand(
		newServeCmd(logging, &opts),
		newValidateCmd(logging, &opts),
		newCapabilitiesCmd(logging),
	)

	return root
}

func newServeCmd(logging app.Logging, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, logging, opts)
		},
	}
}

func runServe(cmd *cobra.Command, logging app.Logging, opts *rootOptions) error {
	ctx, cancel := signalAwareContext(cmd.Context())
	defer cancel()

	application := app.New(logging)
	return application.Serve(ctx, app.ServeConfig{
		ConfigPath: opts.configPath,
		Flags:      cmd.Flags(),
	})
}

func newValidateCmd(logging app.Logging, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and capabilities without serving",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application := app.New(logging)
			_, err := application.ValidateConfig(cmd.Context(), app.ValidateConfig{
				ConfigPath: opts.configPath,
				Flags:      cmd.Flags(),
			})
			return err
		},
	}
}
