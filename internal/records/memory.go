package records

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/repository"
)

type memoryRepository struct {
	mu      sync.RWMutex
	records map[string]domain.SavedExpRecord
}

// NewMemoryRepository returns a process-local record store.
func NewMemoryRepository() repository.Records {
	return &memoryRepository{records: make(map[string]domain.SavedExpRecord)}
}

func (r *memoryRepository) CreateRecord(_ context.Context, record *domain.SavedExpRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.ID]; ok {
		return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidInput, record.ID)
	}
	r.records[record.ID] = *record
	return nil
}

func (r *memoryRepository) UpdateRecord(_ context.Context, record *domain.SavedExpRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	r.records[record.ID] = *record
	return nil
}

func (r *memoryRepository) DeleteRecord(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *memoryRepository) GetRecord(_ context.Context, id string) (*domain.SavedExpRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &rec, nil
}

func (r *memoryRepository) ListRecords(_ context.Context) ([]domain.SavedExpRecord, error) {
	r.mu.RLock()
	out := make([]domain.SavedExpRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].SavedAt.Equal(out[j].SavedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}
