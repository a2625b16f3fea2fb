package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

const defaultConnectTimeout = time.Second * 5

// NewPGXPool creates a configured pgxpool.Pool from the given configuration.
func NewPGXPool(ctx context.Context, cfg *Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing pool config failed: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Pool.MaxConns) //nolint:gosec
	poolConfig.MinConns = int32(cfg.Pool.MinConns) //nolint:gosec
	poolConfig.MaxConnLifetime = cfg.Pool.MaxConnLifetime.Std()
	poolConfig.MaxConnIdleTime = cfg.Pool.MaxConnIdleTime.Std()
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool failed: %w", err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database failed: %w", pingErr)
	}

	return pool, nil
}

// NewSQLDB creates a configured *sql.DB from the given configuration.
func NewSQLDB(ctx context.Context, cfg *Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening database connection failed: %w", err)
	}

	db.SetMaxOpenConns(cfg.Pool.MaxConns)
	db.SetMaxIdleConns(cfg.Pool.MinConns)
	db.SetConnMaxLifetime(cfg.Pool.MaxConnLifetime.Std())
	db.SetConnMaxIdleTime(cfg.Pool.MaxConnIdleTime.Std())

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database failed: %w", pingErr)
	}

	return db, nil
}

// NewSQLX creates a configured *sqlx.DB from the given configuration.
func NewSQLX(ctx context.Context, cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening database connection failed: %w", err)
	}

	db.SetMaxOpenConns(cfg.Pool.MaxConns)
	db.SetMaxIdleConns(cfg.Pool.MinConns)
	db.SetConnMaxLifetime(cfg.Pool.MaxConnLifetime.Std())
	db.SetConnMaxIdleTime(cfg.Pool.MaxConnIdleTime.Std())

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database failed: %w", pingErr)
	}

	return db, nil
}
