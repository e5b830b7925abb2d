package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var embedMigrations embed.FS

type dialect struct {
	sqlDriver    string
	gooseDialect string
	dir          string
}

var dialects = map[string]dialect{
	DriverPostgres: {sqlDriver: "pgx", gooseDialect: "postgres", dir: "postgres"},
	DriverSQLite:   {sqlDriver: "sqlite", gooseDialect: "sqlite3", dir: "sqlite"},
	DriverMySQL:    {sqlDriver: "mysql", gooseDialect: "mysql", dir: "mysql"},
}

// RunMigrations runs all pending database migrations for the configured driver.
func RunMigrations(cfg Config) error {
	d, ok := dialects[cfg.Driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", cfg.Driver)
	}

	slog.Info("Running database migrations...", "driver", cfg.Driver)

	db, err := sql.Open(d.sqlDriver, cfg.Url)
	if err != nil {
		return err
	}
	defer db.Close()
	// search_path is set per connection.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	return migrateDB(db, cfg, d)
}

// MigrateSQL applies migrations over an already opened connection. SQLite
// in-memory databases only exist for the lifetime of their connection, so
// they must be migrated through the handle the store will use.
func MigrateSQL(db *sql.DB, driver string) error {
	d, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", driver)
	}
	return migrateDB(db, Config{Driver: driver}, d)
}

func migrateDB(db *sql.DB, cfg Config, d dialect) error {
	if cfg.Driver == DriverPostgres {
		schema := cfg.Schema
		if schema == "" {
			schema = "public"
		}
		if err := ensureSchemaExists(db, schema); err != nil {
			return err
		}
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(d.gooseDialect); err != nil {
		return err
	}
	if err := goose.Up(db, path.Join("migrations", d.dir)); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	slog.Info("Database migrations completed successfully", "driver", cfg.Driver)
	return nil
}

func ensureSchemaExists(db *sql.DB, schema string) error {
	query := "CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{schema}.Sanitize()
	if _, err := db.Exec(query); err != nil {
		return err
	}

	setPathQuery := "SET search_path TO " + pgx.Identifier{schema}.Sanitize()
	if _, err := db.Exec(setPathQuery); err != nil {
		return err
	}
	slog.Info("Schema is ready", "schema", schema)

	return nil
}
