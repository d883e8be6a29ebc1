// Package database provides the PostgreSQL connection pool shared by all
// repositories.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx, so repositories can run
// inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service defines the database operations used by the application
type Service interface {
	Querier
	// WithTx runs fn inside a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
	// Health reports pool statistics and connectivity.
	Health(ctx context.Context) map[string]string
	Close()
}

// Config holds pool settings
type Config struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type service struct {
	*pgxpool.Pool
}

var _ Service = (*service)(nil)

// New connects to PostgreSQL, verifies the connection and bootstraps the
// schema.
func New(ctx context.Context, cfg Config) (Service, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return NewFromPool(pool), nil
}

// NewFromPool wraps an already connected pool
func NewFromPool(pool *pgxpool.Pool) Service {
	return &service{Pool: pool}
}

// WithTx runs fn in a transaction. The transaction is rolled back when fn
// returns an error or panics.
func (s *service) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Health returns the health status and pool statistics
func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	stats := make(map[string]string)
	if err := s.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		slog.Error("Database health check failed", "error", err)
		return stats
	}

	st := s.Stat()
	stats["status"] = "up"
	stats["total_connections"] = fmt.Sprint(st.TotalConns())
	stats["idle_connections"] = fmt.Sprint(st.IdleConns())
	stats["acquired_connections"] = fmt.Sprint(st.AcquiredConns())
	stats["max_connections"] = fmt.Sprint(st.MaxConns())
	return stats
}
