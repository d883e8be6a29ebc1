// Package databasetest starts a throwaway PostgreSQL container for
// integration tests.
package databasetest

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"dashboard/internal/database"
)

const image = "postgres:16-alpine"

// NewPool starts a PostgreSQL container, bootstraps the schema and returns a
// pool connected to it. The container is removed when the test ends. The
// test is skipped in -short mode or when no container runtime is available.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := postgres.Run(ctx, image,
		postgres.WithDatabase("dashboard"),
		postgres.WithUsername("dashboard"),
		postgres.WithPassword("dashboard"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("could not build connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("could not connect to postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("could not ensure schema: %v", err)
	}
	return pool
}

// NewDB is NewPool wrapped as a database.Service, for code that runs
// transactions.
func NewDB(t *testing.T) database.Service {
	t.Helper()
	return database.NewFromPool(NewPool(t))
}

// InsertUser adds a bare user row so tables referencing users can be
// exercised without the users package.
func InsertUser(t *testing.T, q database.Querier, id, email string) {
	t.Helper()
	_, err := q.Exec(context.Background(),
		`INSERT INTO users (id, email, hashed_password) VALUES ($1, $2, 'x')`, id, email)
	if err != nil {
		t.Fatalf("could not insert user %s: %v", id, err)
	}
}
