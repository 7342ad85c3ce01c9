// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

// Package storetest starts a migrated PostgreSQL container for integration tests.
package storetest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taskshare/taskshare/internal/store"
)

// Image is the PostgreSQL image used by integration tests.
const Image = "postgres:18-alpine"

// Database is a running, migrated test database.
type Database struct {
	Pool      *pgxpool.Pool
	URL       string
	container *postgres.PostgresContainer
}

// Start runs a PostgreSQL container, applies all migrations and connects a pool.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		Image,
		postgres.WithDatabase("taskshare_test"),
		postgres.WithUsername("taskshare"),
		postgres.WithPassword("taskshare"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, oops.With("operation", "start postgres container").Wrap(err)
	}

	db := &Database{container: container}
	if err := db.init(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}
	return db, nil
}

func (d *Database) init(ctx context.Context) error {
	url, err := d.container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return oops.With("operation", "get connection string").Wrap(err)
	}
	d.URL = url

	migrator, err := store.NewMigrator(url)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck // test setup
	if err := migrator.Up(); err != nil {
		return err
	}

	d.Pool, err = store.Connect(ctx, url, store.ConnectOptions{})
	return err
}

// Reset removes all rows and restarts ID sequences.
func (d *Database) Reset(ctx context.Context) error {
	_, err := d.Pool.Exec(ctx, `TRUNCATE users RESTART IDENTITY`)
	return oops.With("operation", "truncate users").Wrap(err)
}

// Close releases the pool and terminates the container.
func (d *Database) Close(ctx context.Context) {
	if d.Pool != nil {
		d.Pool.Close()
	}
	if d.container != nil {
		_ = d.container.Terminate(ctx) //nolint:errcheck // best effort teardown
	}
}
