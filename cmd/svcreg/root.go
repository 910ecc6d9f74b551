package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/svcreg/bootstrap"
	"github.com/kbukum/svcreg/config"
	"github.com/kbukum/svcreg/di"
	"github.com/kbukum/svcreg/logger"
	"github.com/kbukum/svcreg/observability"
)

const serviceName = "svcreg"

// telemetrySetup installs exporters for a loaded config.
type telemetrySetup func(ctx context.Context, cfg observability.Config, svc observability.ServiceInfo) (observability.ShutdownFunc, error)

// app holds the flags shared by all commands and the registry they inspect.
type app struct {
	configPath string
	envFile    string
	verbose    bool

	root           *cobra.Command
	setupTelemetry telemetrySetup

	cfg      *config.Config
	registry *di.Registry
	shutdown observability.ShutdownFunc
}

func newApp() *app {
	a := &app{setupTelemetry: observability.Setup}

	a.root = &cobra.Command{
		Use:   serviceName,
		Short: "Inspect a service registry built from a config file",
		Long: `svcreg loads a config file, seeds a registry with its services and
tags, and prints what the registry resolves.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd.Context())
		},
	}

	root := a.root
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file path (default: searched)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", ".env file path (default: searched)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		a.keysCmd(),
		a.getCmd(),
		a.taggedCmd(),
		a.tagsCmd(),
		a.summaryCmd(),
		versionCmd(),
	)
	return a
}

// execute runs the selected command and then shuts telemetry down, whether
// the command succeeded or not. Cobra skips post-run hooks after a failed
// RunE.
func (a *app) execute(ctx context.Context) error {
	err := a.root.ExecuteContext(ctx)
	return stderrors.Join(err, a.close(ctx))
}

// initialize loads and validates the config, sets up telemetry export and
// builds the registry.
func (a *app) initialize(ctx context.Context) error {
	// stdout carries command output only
	logger.Init(&logger.Config{Output: "stderr", Level: a.logLevel("warn")})

	var opts []config.LoaderOption
	if a.configPath != "" {
		if _, err := os.Stat(a.configPath); err != nil {
			return fmt.Errorf("config file %q: %w", a.configPath, err)
		}
		opts = append(opts, config.WithConfigFile(a.configPath))
	}
	if a.envFile != "" {
		opts = append(opts, config.WithEnvFile(a.envFile))
	}

	cfg := &config.Config{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return err
	}

	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.Logging.Output = "stderr"
	cfg.Logging.Level = a.logLevel(cfg.Logging.Level)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger.Init(&cfg.Logging)

	shutdown, err := a.setupTelemetry(ctx, cfg.Observability, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}

	a.cfg = cfg
	a.shutdown = shutdown
	a.registry = bootstrap.NewRegistry(cfg)
	return nil
}

func (a *app) logLevel(level string) string {
	if a.verbose {
		return "debug"
	}
	return level
}

func (a *app) close(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}
	shutdown := a.shutdown
	a.shutdown = nil
	return shutdown(ctx)
}
