package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/EternisAI/silo-auth/internal/db"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Database is a disposable PostgreSQL container with the key_pairs schema
// applied.
type Database struct {
	container *postgres.PostgresContainer
	Config    db.Config
}

// StartMigrated starts a container and runs the embedded migrations into
// schema before returning.
func StartMigrated(ctx context.Context, dbUser, dbPassword, dbName, schema string) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.WithDatabase(dbName),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start Postgres container: %w", err)
	}
	database := &Database{container: container}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = database.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}
	database.Config = db.Config{Driver: db.DriverPostgres, Url: url, Schema: schema}

	if err := db.RunMigrations(database.Config); err != nil {
		_ = database.Terminate(ctx)
		return nil, fmt.Errorf("failed to migrate Postgres container: %w", err)
	}
	return database, nil
}

func (d *Database) Terminate(ctx context.Context) error {
	if err := d.container.Terminate(ctx); err != nil {
		return fmt.Errorf("failed to terminate Postgres container: %w", err)
	}
	return nil
}
