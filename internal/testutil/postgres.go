// Package testutil starts throwaway Postgres instances for integration tests
// and seeds common fixtures.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/safar/go-storefront/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MigrationsDir is the repository's migrations directory, independent of the
// test's working directory.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// ProviderHealthy reports whether a container runtime is reachable. The
// docker host lookup panics when none is configured; that panic comes back as
// an error so TestMain can skip instead of crashing.
func ProviderHealthy(ctx context.Context) (err error) {
	defer recoverProvider(&err)

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		return fmt.Errorf("get container provider: %w", err)
	}
	defer provider.Close()

	if err := provider.Health(ctx); err != nil {
		return fmt.Errorf("container provider health: %w", err)
	}
	return nil
}

func recoverProvider(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("container provider unavailable: %v", r)
	}
}

// StartPostgres runs a migrated postgres container. The returned func closes
// the pool and terminates the container.
func StartPostgres(ctx context.Context) (*sql.DB, func(), error) {
	if err := ProviderHealthy(ctx); err != nil {
		return nil, nil, err
	}

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("start postgres container: %w", err)
	}
	terminate := func() { _ = postgres.Terminate(ctx) }

	host, err := postgres.Host(ctx)
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("get container port: %w", err)
	}

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		terminate()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := database.RunMigrations(ctx, db, MigrationsDir(), "up"); err != nil {
		db.Close()
		terminate()
		return nil, nil, err
	}

	cleanup := func() {
		db.Close()
		terminate()
	}
	return db, cleanup, nil
}

// Reset empties every table; the cascade reaches all tables from these roots.
func Reset(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec(`TRUNCATE users, categories RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("Failed to reset database: %v", err)
	}
}
