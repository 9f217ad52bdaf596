package preferences

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/logger"
	"github.com/osse101/ExpTracker_Go/internal/region"
	"github.com/osse101/ExpTracker_Go/internal/repository"
)

// Service persists the tracker's configuration surface: the capture
// interval and the last committed region.
type Service struct {
	repo     repository.Preferences
	fallback time.Duration
	now      func() time.Time

	// mu serializes read-modify-write cycles.
	mu sync.Mutex
}

// NewService creates a preference service. fallback is the interval used
// when nothing has been saved.
func NewService(repo repository.Preferences, fallback time.Duration) *Service {
	if fallback <= 0 {
		fallback = domain.DefaultCaptureInterval
	}
	return &Service{repo: repo, fallback: fallback, now: time.Now}
}

// Load returns the saved preferences, filling defaults for anything unset.
func (s *Service) Load(ctx context.Context) (domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// SetCaptureInterval saves a new capture interval.
func (s *Service) SetCaptureInterval(ctx context.Context, d time.Duration) error {
	if d < domain.MinCaptureInterval || d > domain.MaxCaptureInterval {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInterval, d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prefs, err := s.load(ctx)
	if err != nil {
		return err
	}
	prefs.CaptureInterval = d
	if err := s.save(ctx, &prefs); err != nil {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgIntervalSaved, "interval", d)
	return nil
}

// SetRegion saves the committed region. A nil region clears it.
func (s *Service) SetRegion(ctx context.Context, r *domain.NormalizedRegion) error {
	if r != nil {
		if err := region.Validate(*r); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prefs, err := s.load(ctx)
	if err != nil {
		return err
	}
	if r != nil {
		cp := *r
		prefs.Region = &cp
	} else {
		prefs.Region = nil
	}
	if err := s.save(ctx, &prefs); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	if r == nil {
		log.Info(LogMsgRegionCleared)
	} else {
		log.Info(LogMsgRegionSaved, "region", *r)
	}
	return nil
}

func (s *Service) load(ctx context.Context) (domain.Preferences, error) {
	saved, err := s.repo.GetPreferences(ctx)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("%s: %w", ErrMsgLoadFailed, err)
	}
	if saved == nil {
		logger.FromContext(ctx).Debug(LogMsgPreferencesDefault, "interval", s.fallback)
		return domain.Preferences{CaptureInterval: s.fallback}, nil
	}

	prefs := *saved
	if prefs.CaptureInterval <= 0 {
		prefs.CaptureInterval = s.fallback
	}
	if prefs.Region != nil && region.Validate(*prefs.Region) != nil {
		prefs.Region = nil
	}
	logger.FromContext(ctx).Debug(LogMsgPreferencesLoaded, "interval", prefs.CaptureInterval, "has_region", prefs.Region != nil)
	return prefs, nil
}

func (s *Service) save(ctx context.Context, prefs *domain.Preferences) error {
	prefs.UpdatedAt = s.now().UTC()
	if err := s.repo.SavePreferences(ctx, prefs); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSaveFailed, err)
	}
	return nil
}
