package handler

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/ExpTracker_Go/internal/detect"
	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/history"
	"github.com/osse101/ExpTracker_Go/internal/records"
)

// MockTracker mocks the Tracker interface
type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) Ready() bool { return m.Called().Bool(0) }

func (m *MockTracker) Start(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockTracker) Stop(ctx context.Context) { m.Called(ctx) }

func (m *MockTracker) State() domain.TrackerState {
	return m.Called().Get(0).(domain.TrackerState)
}

func (m *MockTracker) SetCaptureInterval(ctx context.Context, d time.Duration) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockTracker) SetMinConfidence(c float64) error { return m.Called(c).Error(0) }

func (m *MockTracker) SetRegion(r domain.NormalizedRegion) error { return m.Called(r).Error(0) }

func (m *MockTracker) SetPixelRegion(p domain.PixelRegion) error { return m.Called(p).Error(0) }

func (m *MockTracker) SelectByDrag(x0, y0, x1, y1 int) error {
	return m.Called(x0, y0, x1, y1).Error(0)
}

func (m *MockTracker) ClearRegion() { m.Called() }

func (m *MockTracker) PixelRegion() (domain.PixelRegion, bool) {
	args := m.Called()
	return args.Get(0).(domain.PixelRegion), args.Bool(1)
}

func (m *MockTracker) DetectRegion(ctx context.Context) (*detect.Detection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*detect.Detection), args.Error(1)
}

func (m *MockTracker) SetDebug(on bool) { m.Called(on) }

func (m *MockTracker) Debug() bool { return m.Called().Bool(0) }

func (m *MockTracker) Scans() []domain.ScanAttempt {
	return m.Called().Get(0).([]domain.ScanAttempt)
}

func (m *MockTracker) Samples() []domain.SampleDecision {
	return m.Called().Get(0).([]domain.SampleDecision)
}

func (m *MockTracker) History() []domain.ExpHistoryEntry {
	return m.Called().Get(0).([]domain.ExpHistoryEntry)
}

func (m *MockTracker) ResetHistory(ctx context.Context) { m.Called(ctx) }

func (m *MockTracker) Stats() domain.ExpStats { return m.Called().Get(0).(domain.ExpStats) }

func (m *MockTracker) Display() domain.ExpDisplay { return m.Called().Get(0).(domain.ExpDisplay) }

func (m *MockTracker) ExportCSV(w io.Writer, opts history.CSVOptions) error {
	return m.Called(w, opts).Error(0)
}

func (m *MockTracker) ExportXLSX(w io.Writer) error { return m.Called(w).Error(0) }

func (m *MockTracker) SaveRecord(ctx context.Context, draft domain.RecordDraft) (*domain.SavedExpRecord, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedExpRecord), args.Error(1)
}

func (m *MockTracker) Records() records.Service {
	return m.Called().Get(0).(records.Service)
}

// expectState stubs the calls every state response makes.
func expectState(m *MockTracker, st domain.TrackerState) {
	m.On("State").Return(st).Maybe()
	m.On("Ready").Return(true).Maybe()
	m.On("Debug").Return(false).Maybe()
	m.On("PixelRegion").Return(domain.PixelRegion{}, false).Maybe()
}
