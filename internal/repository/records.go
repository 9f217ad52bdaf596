package repository

import (
	"context"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// Records defines the interface for saved record persistence
type Records interface {
	CreateRecord(ctx context.Context, record *domain.SavedExpRecord) error
	// UpdateRecord replaces the record with the same ID. It returns
	// domain.ErrRecordNotFound when no such record exists.
	UpdateRecord(ctx context.Context, record *domain.SavedExpRecord) error
	DeleteRecord(ctx context.Context, id string) error
	GetRecord(ctx context.Context, id string) (*domain.SavedExpRecord, error)
	// ListRecords returns all records, newest first.
	ListRecords(ctx context.Context) ([]domain.SavedExpRecord, error)
}
