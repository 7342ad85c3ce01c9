// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package main

import (
	"context"
	cryptotls "crypto/tls"
	"net/http"
	"time"

	"github.com/taskshare/taskshare/internal/auth/postgres"
	"github.com/taskshare/taskshare/internal/observability"
	"github.com/taskshare/taskshare/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// PoolFactory connects to the database.
	// Default: store.Connect
	PoolFactory func(ctx context.Context, url string, opts store.ConnectOptions) (Pool, error)

	// ObservabilityServerFactory creates the metrics and health server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, ready observability.ReadinessChecker) ObservabilityServer

	// TLSConfigLoader loads the HTTPS certificate.
	// Default: tls.ServerConfig
	TLSConfigLoader func(certFile, keyFile string) (*cryptotls.Config, error)

	// APIServerFactory creates the HTTP API server. tlsConfig is nil for
	// plain HTTP.
	// Default: httpapi.NewServer
	APIServerFactory func(addr string, handler http.Handler, readHeaderTimeout time.Duration, tlsConfig *cryptotls.Config) APIServer
}

// Pool is the subset of *pgxpool.Pool used by serve.
type Pool interface {
	postgres.DB
	store.Pinger
	Close()
}

// ObservabilityServer is the subset of *observability.Server used by serve.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// APIServer is the subset of *httpapi.Server used by serve.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// MigrateDeps contains injectable dependencies for the migrate command.
type MigrateDeps struct {
	// MigratorFactory opens a migrator for a database URL.
	// Default: store.NewMigrator
	MigratorFactory func(url string) (Migrator, error)
}

// Migrator is the subset of *store.Migrator used by migrate.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Force(version int) error
	Status() (store.Status, error)
	Close() error
}
