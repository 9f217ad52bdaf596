package preferences

import (
	"context"
	"sync"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/repository"
)

type memoryRepository struct {
	mu    sync.RWMutex
	prefs *domain.Preferences
}

// NewMemoryRepository returns a process-local preference store.
func NewMemoryRepository() repository.Preferences {
	return &memoryRepository{}
}

func (r *memoryRepository) GetPreferences(_ context.Context) (*domain.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.prefs == nil {
		return nil, nil
	}
	return clonePreferences(r.prefs), nil
}

func (r *memoryRepository) SavePreferences(_ context.Context, prefs *domain.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs = clonePreferences(prefs)
	return nil
}

func clonePreferences(p *domain.Preferences) *domain.Preferences {
	cp := *p
	if p.Region != nil {
		r := *p.Region
		cp.Region = &r
	}
	return &cp
}
