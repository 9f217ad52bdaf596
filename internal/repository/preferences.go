package repository

import (
	"context"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// Preferences defines the interface for tracker preference persistence
type Preferences interface {
	// GetPreferences returns nil, nil when nothing has been saved yet.
	GetPreferences(ctx context.Context) (*domain.Preferences, error)
	SavePreferences(ctx context.Context, prefs *domain.Preferences) error
}
