package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/newwork/people-service/pkg/config"
	"github.com/newwork/people-service/pkg/logger"
)

// DB wraps the sqlx connection pool
type DB struct {
	*sqlx.DB
}

// New opens the Postgres pool, applies the pool limits from cfg, and
// runs any pending migrations when cfg.MigrationsPath is set.
func New(cfg *config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	db, err := NewWithDSN(cfg.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if cfg.MigrationsPath != "" {
		if err := MigrateUp(cfg.MigrationsPath, cfg.DSN()); err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Str("migrations", cfg.MigrationsPath).Msg("schema up to date")
	}

	return db, nil
}

// NewWithDSN opens a pool from a raw DSN. Used by tests pointing at a
// throwaway container.
func NewWithDSN(dsn string) (*DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Health reports whether the pool can reach the server, bounded to one
// second so the health endpoint stays fast when the database is down.
func (db *DB) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return map[string]string{"status": "down", "error": err.Error()}
	}

	return map[string]string{"status": "up"}
}
