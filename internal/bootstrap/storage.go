package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ExpTracker_Go/internal/config"
	"github.com/osse101/ExpTracker_Go/internal/database"
	"github.com/osse101/ExpTracker_Go/internal/database/postgres"
	"github.com/osse101/ExpTracker_Go/internal/preferences"
	"github.com/osse101/ExpTracker_Go/internal/records"
	"github.com/osse101/ExpTracker_Go/internal/repository"
)

// Pool settings for the small tracker schema
const (
	dbMaxIdle = 5 * time.Minute
	dbMaxLife = 30 * time.Minute
)

// Storage holds the repositories the tracker persists through. Pool is nil
// with in-memory storage.
type Storage struct {
	Records     repository.Records
	Preferences repository.Preferences
	Pool        *pgxpool.Pool
}

// Close releases the database pool, if any.
func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// InitializeStorage builds the configured backend. The postgres backend
// connects and applies the embedded migrations first.
func InitializeStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if !cfg.UsesPostgres() {
		slog.Info(LogMsgStorageInitialized, "backend", config.StorageMemory)
		return &Storage{
			Records:     records.NewMemoryRepository(),
			Preferences: preferences.NewMemoryRepository(),
		}, nil
	}

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, dbMaxIdle, dbMaxLife)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
	}
	slog.Info(LogMsgStorageInitialized, "backend", config.StoragePostgres, "host", cfg.DBHost, "db", cfg.DBName)

	return &Storage{
		Records:     postgres.NewRecordRepository(pool),
		Preferences: postgres.NewPreferencesRepository(pool),
		Pool:        pool,
	}, nil
}
