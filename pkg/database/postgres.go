package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DevWeb31/phuong-long-sub002/pkg/apperrors"
)

// DB wraps the pgxpool connection pool shared by all repositories.
type DB struct {
	*pgxpool.Pool
}

// Config holds connection pool settings. URL is required; zero values for
// the pool knobs fall back to the defaults below.
type Config struct {
	URL             string
	MaxConnections  int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Pool defaults when Config leaves a knob unset. MaxConnections normally
// arrives from DatabaseConfig (PGMAX_CONNECTIONS).
const (
	defaultMaxConnections  int32 = 10
	defaultMaxConnLifetime       = time.Hour
	defaultMaxConnIdleTime       = 30 * time.Minute
)

// NewConnection creates the connection pool and verifies it with a ping.
// An unreachable database reports ErrUpstreamUnavailable so callers can
// tell a connectivity problem from a bad configuration.
func NewConnection(ctx context.Context, cfg *Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	applyPoolSettings(poolConfig, cfg)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %v: %w", err, apperrors.ErrUpstreamUnavailable)
	}

	return &DB{Pool: pool}, nil
}

func applyPoolSettings(poolConfig *pgxpool.Config, cfg *Config) {
	poolConfig.MaxConns = cfg.MaxConnections
	if poolConfig.MaxConns <= 0 {
		poolConfig.MaxConns = defaultMaxConnections
	}

	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	if poolConfig.MaxConnLifetime == 0 {
		poolConfig.MaxConnLifetime = defaultMaxConnLifetime
	}

	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	if poolConfig.MaxConnIdleTime == 0 {
		poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	}
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}
