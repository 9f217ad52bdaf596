package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/ExpTracker_Go/internal/database"
)

var (
	testPool     *pgxpool.Pool
	testPoolErr  string
	testPoolOnce sync.Once
)

// setupTestPool starts one container per package run, applies migrations
// once and empties the tracker tables before every test.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testPoolOnce.Do(startContainer)
	if testPool == nil {
		t.Skipf("Skipping integration test: %s", testPoolErr)
	}

	ctx := context.Background()
	if _, err := testPool.Exec(ctx, `TRUNCATE saved_records, tracker_preferences`); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
	return testPool
}

func startContainer() {
	ctx := context.Background()

	// testcontainers panics when no docker daemon is reachable
	defer func() {
		if r := recover(); r != nil {
			testPoolErr = "docker unavailable"
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		testPoolErr = err.Error()
		return
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		testPoolErr = err.Error()
		return
	}

	pool, err := database.NewPool(ctx, connStr, 5, time.Minute, 5*time.Minute)
	if err != nil {
		testPoolErr = err.Error()
		return
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		testPoolErr = err.Error()
		return
	}
	testPool = pool
}
