package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rxgate/rxgate/internal/platform/db"
)

// globalPool is the package-level test database, initialized once in TestMain.
// It is nil when TEST_DATABASE_URL is not set; tests call requireDB to skip.
var globalPool *pgxpool.Pool

func TestMain(m *testing.M) {
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to test database: %v\n", err)
		os.Exit(1)
	}
	if err := pool.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ping test database: %v\n", err)
		os.Exit(1)
	}

	migrator := db.NewMigrator(pool, findMigrationsDir())
	if _, err := migrator.Up(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "run migrations: %v\n", err)
		os.Exit(1)
	}

	globalPool = pool
	code := m.Run()
	pool.Close()
	os.Exit(code)
}

// requireDB skips the test when no test database is configured and otherwise
// returns a clean pool with all tables truncated.
func requireDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if globalPool == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	_, err := globalPool.Exec(context.Background(),
		`TRUNCATE prescriptions, orders, customers CASCADE`)
	if err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return globalPool
}

// findMigrationsDir locates the migrations directory relative to this test file.
func findMigrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	// test/integration -> repo root
	return filepath.Join(dir, "..", "..", "migrations")
}
