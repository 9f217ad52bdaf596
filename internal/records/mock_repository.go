package records

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// MockRepository is a mock implementation of the repository.Records interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateRecord(ctx context.Context, record *domain.SavedExpRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRepository) UpdateRecord(ctx context.Context, record *domain.SavedExpRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRepository) DeleteRecord(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) GetRecord(ctx context.Context, id string) (*domain.SavedExpRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedExpRecord), args.Error(1)
}

func (m *MockRepository) ListRecords(ctx context.Context) ([]domain.SavedExpRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavedExpRecord), args.Error(1)
}
