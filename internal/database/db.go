package database

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/lib/pq"
	"todolist/internal/config"
	"todolist/pkg/logger"
)

var (
	pool *sql.DB
	once sync.Once
)

const schema = `
CREATE TABLE IF NOT EXISTS todos (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL CHECK (title <> ''),
	completed  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS todos_created_at_idx ON todos (created_at DESC);
`

// DB returns the global database connection pool (initialized on first use).
func DB(ctx context.Context) *sql.DB {
	once.Do(func() {
		cfg := config.Get()
		if cfg.DatabaseURL == "" {
			logger.Error(ctx, "DATABASE_URL is not set")
			return
		}
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error(ctx, "Failed to open database", "error", err)
			return
		}
		db.SetMaxOpenConns(cfg.DBPoolSize)
		db.SetMaxIdleConns(cfg.DBPoolSize / 2)
		pool = db
		logger.Info(ctx, "Database pool initialized", "max_open", cfg.DBPoolSize)
	})
	return pool
}

// MigrateOrCreateSchema creates the todos table and its ordering index if missing.
func MigrateOrCreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Error(ctx, "Schema migration failed", "error", err)
		return err
	}
	return nil
}

// Close releases whichever connections were opened.
func Close(ctx context.Context) {
	if pool != nil {
		if err := pool.Close(); err != nil {
			logger.Warn(ctx, "Closing database pool failed", "error", err)
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Warn(ctx, "Disconnecting MongoDB failed", "error", err)
		}
	}
}
