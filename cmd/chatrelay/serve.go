package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"chatrelay/pkg/cli"
	"chatrelay/pkg/config"
	"chatrelay/pkg/relay"
	"chatrelay/pkg/server"
	"chatrelay/pkg/telemetry/health"
	"chatrelay/pkg/telemetry/logging"
	"chatrelay/pkg/telemetry/metrics"
	"chatrelay/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	watch         bool
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chatbot function over HTTP",
	Long: `Serve the chatbot function over HTTP at server.function_path.

Examples:
  # Start with defaults (127.0.0.1:8888)
  chatrelay serve

  # Start with a config file and override the listen address
  chatrelay serve --config chatrelay.yaml --listen 0.0.0.0:8080

  # Apply log level changes from the config file without restart
  chatrelay serve --config chatrelay.yaml --watch

  # Validate config without starting the server
  chatrelay serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", false, "reload the log level when the config file changes")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if serveFlags.watch {
		cfg.Watch = true
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())

	if serveFlags.dryRun {
		if cfg.Server.TLS.Enabled {
			if err := validateCertificate(cmd, cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile, ""); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewConfigError("telemetry.tracing", err.Error())
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	secretSource, err := newSecretSource(cfg)
	if err != nil {
		return cli.NewConfigError("relay.secrets_dir", err.Error())
	}

	upstream, err := newUpstream(cfg)
	if err != nil {
		return cli.NewConfigError("upstream", err.Error())
	}
	defer upstream.Close()

	handler := relay.NewHandler(relay.OptionsFromConfig(cfg), upstream, secretSource, logger, collector, tracer)

	checker := health.New(2 * time.Second)
	checker.Register("credential", func(ctx context.Context) error {
		_, err := secretSource.GetSecret(ctx, cfg.Relay.CredentialEnv)
		return err
	})

	srv := server.New(cfg, server.Deps{
		Relay:         handler,
		Logger:        logger,
		Metrics:       collector,
		Tracer:        tracer,
		Health:        checker,
		UpstreamStats: upstream.Stats,
		Build:         health.NewBuildInfo(Version, GitCommit, BuildDate),
	})

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	if cfg.Watch {
		if err := startWatcher(ctx, cfgFile, logger); err != nil {
			logger.Warn("config watch disabled", "error", err)
		}
	}

	logger.Info("chatrelay starting",
		"version", Version,
		"listen_address", cfg.Server.ListenAddress,
		"function_path", cfg.Server.FunctionPath,
		"model", cfg.Relay.Model,
		"credential_env", cfg.Relay.CredentialEnv,
		"tracing", tracer.Enabled(),
	)

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}

// startWatcher reloads the config file on change and applies the new log
// level. Other settings take effect on restart.
func startWatcher(ctx context.Context, path string, logger *logging.Logger) error {
	if path == "" {
		return fmt.Errorf("no config file to watch")
	}

	watcher, err := config.NewWatcher(path, 0, logger.Slog())
	if err != nil {
		return err
	}

	go func() {
		err := watcher.Watch(ctx, func(next *config.Config) {
			config.SetConfig(next)
			if err := logger.SetLevel(next.Telemetry.Logging.Level); err != nil {
				logger.Warn("ignoring reloaded log level", "error", err)
				return
			}
			logger.Info("configuration reloaded", "log_level", next.Telemetry.Logging.Level)
		})
		if err != nil && ctx.Err() == nil {
			logger.Error("config watcher stopped", "error", err)
		}
	}()

	return nil
}
