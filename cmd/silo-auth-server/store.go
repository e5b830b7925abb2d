package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/EternisAI/silo-auth/internal/api/http/handler"
	"github.com/EternisAI/silo-auth/internal/db"
	"github.com/EternisAI/silo-auth/internal/db/sqlc"
	"github.com/EternisAI/silo-auth/internal/keypair"
)

type storeHandle struct {
	store keypair.Store
	ping  handler.PingFunc
	close func()
}

// openStore connects the key pair store selected by cfg.Driver. Postgres and
// MySQL are expected to be migrated with the migrate command. SQLite is
// migrated here since an in-memory database starts empty on every run.
func openStore(ctx context.Context, cfg db.Config) (*storeHandle, error) {
	switch cfg.Driver {
	case db.DriverMemory:
		slog.Warn("Using in-memory key pair store; data is lost on restart")
		return &storeHandle{store: keypair.NewMemoryStore(), close: func() {}}, nil

	case db.DriverPostgres:
		pool, err := db.InitDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &storeHandle{
			store: keypair.NewPostgresStore(sqlc.New(pool)),
			ping:  pool.Ping,
			close: pool.Close,
		}, nil

	case db.DriverSQLite, db.DriverMySQL:
		conn, err := db.OpenSQL(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Driver == db.DriverSQLite {
			if err := db.MigrateSQL(conn.DB, cfg.Driver); err != nil {
				conn.Close()
				return nil, fmt.Errorf("migrate sqlite database: %w", err)
			}
		}
		return &storeHandle{
			store: keypair.NewSQLStore(conn),
			ping:  conn.PingContext,
			close: func() { _ = conn.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
