package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/repository"
)

type preferencesRepository struct {
	db *pgxpool.Pool
}

// NewPreferencesRepository creates a new PostgreSQL preferences repository
func NewPreferencesRepository(db *pgxpool.Pool) repository.Preferences {
	return &preferencesRepository{db: db}
}

func (r *preferencesRepository) GetPreferences(ctx context.Context) (*domain.Preferences, error) {
	query := `
		SELECT capture_interval_ms, region_x, region_y, region_width, region_height, updated_at
		FROM tracker_preferences
		WHERE id = 1
	`
	var (
		intervalMs int64
		x, y, w, h *float64
		prefs      domain.Preferences
	)
	err := r.db.QueryRow(ctx, query).Scan(&intervalMs, &x, &y, &w, &h, &prefs.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPreferences, err)
	}

	prefs.CaptureInterval = time.Duration(intervalMs) * time.Millisecond
	prefs.UpdatedAt = prefs.UpdatedAt.UTC()
	if x != nil && y != nil && w != nil && h != nil {
		prefs.Region = &domain.NormalizedRegion{X: *x, Y: *y, Width: *w, Height: *h}
	}
	return &prefs, nil
}

func (r *preferencesRepository) SavePreferences(ctx context.Context, prefs *domain.Preferences) error {
	query := `
		INSERT INTO tracker_preferences (id, capture_interval_ms, region_x, region_y, region_width, region_height, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			capture_interval_ms = EXCLUDED.capture_interval_ms,
			region_x = EXCLUDED.region_x,
			region_y = EXCLUDED.region_y,
			region_width = EXCLUDED.region_width,
			region_height = EXCLUDED.region_height,
			updated_at = EXCLUDED.updated_at
	`
	var x, y, w, h *float64
	if prefs.Region != nil {
		x, y, w, h = &prefs.Region.X, &prefs.Region.Y, &prefs.Region.Width, &prefs.Region.Height
	}

	_, err := r.db.Exec(ctx, query, prefs.CaptureInterval.Milliseconds(), x, y, w, h, prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSavePreferences, err)
	}
	return nil
}
