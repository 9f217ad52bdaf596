package bootstrap

import (
	"context"
	"image"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ExpTracker_Go/internal/capture"
	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/ocr"
)

type stubOCR struct{ ready atomic.Bool }

func (s *stubOCR) Ready() bool { return s.ready.Load() }

func (s *stubOCR) Recognize(context.Context, image.Image) (domain.OCRReading, error) {
	return ocr.NewReading("EXP 100", 90), nil
}

func (s *stubOCR) Locate(context.Context, image.Image) (ocr.Location, error) {
	return ocr.Location{}, nil
}

func TestInitializeTracker(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	storage, err := InitializeStorage(ctx, cfg)
	require.NoError(t, err)
	events, err := InitializeEventSystem(cfg)
	require.NoError(t, err)
	t.Cleanup(events.Hub.Stop)

	engine := &stubOCR{}
	engine.ready.Store(true)

	svc, err := InitializeTracker(ctx, TrackerDependencies{
		Config:  cfg,
		OCR:     engine,
		Storage: storage,
		Events:  events,
		Opener: func() (capture.Surface, error) {
			return capture.NewImageSurface(image.NewRGBA(image.Rect(0, 0, 100, 50))), nil
		},
	})
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	state := svc.State()
	assert.False(t, state.IsTracking)
	assert.Equal(t, cfg.CaptureInterval, svc.CaptureInterval())
}

func TestWaitForOCR(t *testing.T) {
	engine := &stubOCR{}

	assert.False(t, WaitForOCR(context.Background(), engine, 50*time.Millisecond))

	go func() {
		time.Sleep(20 * time.Millisecond)
		engine.ready.Store(true)
	}()
	assert.True(t, WaitForOCR(context.Background(), engine, time.Second))
}
