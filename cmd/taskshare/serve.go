// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package main

import (
	"context"
	cryptotls "crypto/tls"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/taskshare/taskshare/internal/auth"
	"github.com/taskshare/taskshare/internal/auth/postgres"
	"github.com/taskshare/taskshare/internal/config"
	"github.com/taskshare/taskshare/internal/httpapi"
	"github.com/taskshare/taskshare/internal/logging"
	"github.com/taskshare/taskshare/internal/observability"
	"github.com/taskshare/taskshare/internal/store"
	tlscerts "github.com/taskshare/taskshare/internal/tls"
)

const (
	serviceName      = "taskshare"
	readinessTimeout = 2 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server. Configuration is read from the --config
file, TASKSHARE_* environment variables and flags, in that order.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath(), cmd.Flags())
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

// runServeWithDeps starts the API server with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.PoolFactory == nil {
		deps.PoolFactory = func(ctx context.Context, url string, opts store.ConnectOptions) (Pool, error) {
			return store.Connect(ctx, url, opts)
		}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, ready observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, ready)
		}
	}
	if deps.TLSConfigLoader == nil {
		deps.TLSConfigLoader = tlscerts.ServerConfig
	}
	if deps.APIServerFactory == nil {
		deps.APIServerFactory = func(addr string, handler http.Handler, readHeaderTimeout time.Duration, tlsConfig *cryptotls.Config) APIServer {
			var opts []httpapi.ServerOption
			if tlsConfig != nil {
				opts = append(opts, httpapi.WithTLSConfig(tlsConfig))
			}
			return httpapi.NewServer(addr, handler, readHeaderTimeout, opts...)
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	logger := logging.SetDefault(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.Log.Format,
		Level:   level,
		Output:  cmd.ErrOrStderr(),
	})
	logger.InfoContext(ctx, "starting api server",
		"http_addr", cfg.HTTP.Addr,
		"log_format", cfg.Log.Format,
		"tls", cfg.HTTP.TLSEnabled(),
	)

	var tlsConfig *cryptotls.Config
	if cfg.HTTP.TLSEnabled() {
		tlsConfig, err = deps.TLSConfigLoader(cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile)
		if err != nil {
			return err
		}
	}

	pool, err := deps.PoolFactory(ctx, cfg.Database.URL, store.ConnectOptions{
		MaxConns: cfg.Database.MaxConns,
		Attempts: cfg.Database.ConnectAttempts,
		Backoff:  cfg.Database.ConnectBackoff,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.InfoContext(ctx, "connected to database")

	issuer, err := auth.NewJWTIssuer([]byte(cfg.JWT.Secret))
	if err != nil {
		return err
	}
	svc, err := auth.NewService(
		postgres.NewUserRepository(pool),
		auth.NewBcryptHasher(),
		issuer,
		auth.WithLogger(logger),
	)
	if err != nil {
		return oops.Code("SERVE_INIT_FAILED").With("operation", "create auth service").Wrap(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, store.ReadinessCheck(pool, readinessTimeout))
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.Code("SERVE_INIT_FAILED").With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		metrics = obsServer.Metrics()
		logger.InfoContext(ctx, "observability server started", "addr", obsServer.Addr())
	}

	handler, err := httpapi.NewHandler(httpapi.Options{
		Service:        svc,
		Verifier:       issuer,
		Logger:         logger,
		Metrics:        metrics,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})
	if err != nil {
		stopServer(obsServer, cfg.HTTP.ShutdownTimeout, "observability")
		return err
	}

	apiServer := deps.APIServerFactory(cfg.HTTP.Addr, handler, cfg.HTTP.ReadHeaderTimeout, tlsConfig)
	apiErrCh, err := apiServer.Start()
	if err != nil {
		stopServer(obsServer, cfg.HTTP.ShutdownTimeout, "observability")
		return err
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("API server listening on " + apiServer.Addr())
	logger.InfoContext(ctx, "api server ready", "addr", apiServer.Addr())

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	stopServer(apiServer, cfg.HTTP.ShutdownTimeout, "api")
	stopServer(obsServer, cfg.HTTP.ShutdownTimeout, "observability")

	logger.Info("shutdown complete")
	return nil
}

type stopper interface {
	Stop(ctx context.Context) error
}

// stopServer stops s within timeout. A nil s is ignored.
func stopServer(s stopper, timeout time.Duration, name string) {
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		slog.Warn("error stopping server", "server", name, "error", err)
	}
}

// monitorServerErrors cancels ctx when a server reports an error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
