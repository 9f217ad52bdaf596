package scheduler

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ExpTracker_Go/internal/capture"
	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/event"
	"github.com/osse101/ExpTracker_Go/internal/region"
	"github.com/osse101/ExpTracker_Go/internal/tracking"
)

const testInterval = 15 * time.Millisecond

type stubRecognizer struct {
	notReady bool
	block    chan struct{} // when set, Recognize waits on it or the context

	calls   atomic.Int32
	mu      sync.Mutex
	sizes   []image.Point
	started chan struct{}
}

func (r *stubRecognizer) Ready() bool { return !r.notReady }

func (r *stubRecognizer) Recognize(ctx context.Context, img image.Image) (domain.OCRReading, error) {
	n := r.calls.Add(1)
	r.mu.Lock()
	r.sizes = append(r.sizes, img.Bounds().Size())
	r.mu.Unlock()

	if r.started != nil {
		select {
		case r.started <- struct{}{}:
		default:
		}
	}
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			v := int64(999999)
			return domain.OCRReading{Text: "999999", ExpValue: &v, Confidence: 99}, ctx.Err()
		}
	}

	v := 1000 + int64(n)*10
	return domain.OCRReading{Text: "EXP", ExpValue: &v, Confidence: 90}, nil
}

func (r *stubRecognizer) Sizes() []image.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]image.Point(nil), r.sizes...)
}

type stopRecorder struct {
	mu      sync.Mutex
	reasons []domain.StopReason
}

func (s *stopRecorder) handle(ctx context.Context, e event.Event) error {
	p, err := event.DecodePayload[event.TrackingStoppedPayloadV1](e.Payload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.reasons = append(s.reasons, p.Reason)
	s.mu.Unlock()
	return nil
}

func (s *stopRecorder) Reasons() []domain.StopReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.StopReason(nil), s.reasons...)
}

type fixture struct {
	sched    *Scheduler
	selector *region.Selector
	engine   *tracking.Engine
	rec      *stubRecognizer
	surface  *capture.ImageSurface
	stops    *stopRecorder
}

func newFixture(t *testing.T, rec *stubRecognizer) *fixture {
	t.Helper()
	sel := region.NewSelector()
	require.NoError(t, sel.SetNormalizedRegion(domain.NormalizedRegion{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5}))

	bus := event.NewMemoryBus()
	stops := &stopRecorder{}
	bus.Subscribe(event.TrackingStopped, stops.handle)

	engine := tracking.NewEngine(60, tracking.Options{})
	sched := New(sel, rec, engine, Options{Interval: testInterval, Bus: bus})
	t.Cleanup(sched.Close)

	surface := capture.NewImageSurface(image.NewRGBA(image.Rect(0, 0, 200, 100)))
	require.NoError(t, sched.AttachSurface(surface))

	return &fixture{sched: sched, selector: sel, engine: engine, rec: rec, surface: surface, stops: stops}
}

func TestStart_Rejections(t *testing.T) {
	t.Run("no region", func(t *testing.T) {
		f := newFixture(t, &stubRecognizer{})
		f.selector.ClearSelection()
		assert.ErrorIs(t, f.sched.Start(context.Background()), domain.ErrNoRegion)
		assert.Equal(t, domain.PhaseIdle, f.sched.Phase())
	})

	t.Run("ocr not ready", func(t *testing.T) {
		f := newFixture(t, &stubRecognizer{notReady: true})
		assert.ErrorIs(t, f.sched.Start(context.Background()), domain.ErrOCRNotReady)
		assert.Equal(t, domain.PhaseIdle, f.sched.Phase())
	})

	t.Run("no surface", func(t *testing.T) {
		sel := region.NewSelector()
		require.NoError(t, sel.SetNormalizedRegion(domain.NormalizedRegion{Width: 1, Height: 1}))
		s := New(sel, &stubRecognizer{}, tracking.NewEngine(60, tracking.Options{}), Options{Interval: testInterval})
		defer s.Close()
		assert.ErrorIs(t, s.Start(context.Background()), domain.ErrNoCaptureSurface)
	})

	t.Run("already tracking", func(t *testing.T) {
		f := newFixture(t, &stubRecognizer{})
		require.NoError(t, f.sched.Start(context.Background()))
		assert.ErrorIs(t, f.sched.Start(context.Background()), domain.ErrAlreadyTracking)
		assert.ErrorIs(t, f.sched.AttachSurface(capture.NewImageSurface(nil)), domain.ErrAlreadyTracking)
	})
}

func TestStart_CapturesImmediatelyThenPeriodically(t *testing.T) {
	f := newFixture(t, &stubRecognizer{})
	assert.Equal(t, domain.PhaseReady, f.sched.Phase())

	require.NoError(t, f.sched.Start(context.Background()))
	assert.Equal(t, domain.PhaseTracking, f.sched.Phase())

	assert.Eventually(t, func() bool { return len(f.engine.History()) >= 3 }, 2*time.Second, time.Millisecond)

	st := f.sched.State()
	assert.True(t, st.IsTracking)
	require.NotNil(t, st.CurrentExp)
	require.NotNil(t, st.Region)
}

func TestCapture_FollowsSurfaceResize(t *testing.T) {
	f := newFixture(t, &stubRecognizer{})
	require.NoError(t, f.sched.Start(context.Background()))

	assert.Eventually(t, func() bool { return len(f.rec.Sizes()) >= 1 }, time.Second, time.Millisecond)
	assert.Equal(t, image.Pt(100, 50), f.rec.Sizes()[0])

	f.surface.SetFrame(image.NewRGBA(image.Rect(0, 0, 400, 200)))

	assert.Eventually(t, func() bool {
		sizes := f.rec.Sizes()
		return sizes[len(sizes)-1] == image.Pt(200, 100)
	}, time.Second, time.Millisecond)

	// The region itself never changed
	r, ok := f.selector.NormalizedRegion()
	require.True(t, ok)
	assert.Equal(t, domain.NormalizedRegion{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5}, r)
}

func TestCapture_SingleFlight(t *testing.T) {
	rec := &stubRecognizer{block: make(chan struct{}), started: make(chan struct{}, 1)}
	f := newFixture(t, rec)
	require.NoError(t, f.sched.Start(context.Background()))

	<-rec.started
	// Many intervals pass while the first recognition is stuck
	time.Sleep(10 * testInterval)
	assert.Equal(t, int32(1), rec.calls.Load())
	assert.True(t, f.sched.InFlight())

	close(rec.block)
	assert.Eventually(t, func() bool { return rec.calls.Load() >= 2 }, time.Second, time.Millisecond)
}

func TestStop_IsIdempotentAndReleasesSurface(t *testing.T) {
	f := newFixture(t, &stubRecognizer{})
	require.NoError(t, f.sched.Start(context.Background()))

	f.sched.Stop(context.Background())
	f.sched.Stop(context.Background())

	assert.Equal(t, []domain.StopReason{domain.StopReasonRequested}, f.stops.Reasons())
	assert.Nil(t, f.sched.Surface())
	assert.Equal(t, domain.PhaseIdle, f.sched.Phase())

	_, err := f.surface.Frame()
	assert.ErrorIs(t, err, capture.ErrClosed)

	// No further captures after stop
	n := f.rec.calls.Load()
	time.Sleep(5 * testInterval)
	assert.Equal(t, n, f.rec.calls.Load())
}

func TestStop_BeforeStartIsNoop(t *testing.T) {
	f := newFixture(t, &stubRecognizer{})
	f.sched.Stop(context.Background())
	assert.Empty(t, f.stops.Reasons())
	assert.Equal(t, domain.PhaseReady, f.sched.Phase())
}

func TestStop_DropsInFlightResult(t *testing.T) {
	rec := &stubRecognizer{block: make(chan struct{}), started: make(chan struct{}, 1)}
	f := newFixture(t, rec)
	require.NoError(t, f.sched.Start(context.Background()))

	<-rec.started
	f.sched.Stop(context.Background())

	assert.Eventually(t, func() bool { return !f.sched.InFlight() }, time.Second, time.Millisecond)
	assert.Nil(t, f.engine.CurrentExp())
	assert.Empty(t, f.engine.History())
}

func TestSurfaceEnd_StopsTracking(t *testing.T) {
	f := newFixture(t, &stubRecognizer{})
	require.NoError(t, f.sched.Start(context.Background()))

	f.surface.End()

	assert.Eventually(t, func() bool { return f.sched.Phase() == domain.PhaseIdle }, time.Second, time.Millisecond)
	assert.Equal(t, []domain.StopReason{domain.StopReasonSurfaceEnded}, f.stops.Reasons())

	// A later Stop does not tear down twice
	f.sched.Stop(context.Background())
	assert.Len(t, f.stops.Reasons(), 1)
}

// syncBuffer collects log output written from the session goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStop_DoesNotReportSurfaceEnd(t *testing.T) {
	var logs syncBuffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	f := newFixture(t, &stubRecognizer{})
	for i := 0; i < 20; i++ {
		if i > 0 {
			require.NoError(t, f.sched.AttachSurface(capture.NewImageSurface(image.NewRGBA(image.Rect(0, 0, 200, 100)))))
		}
		require.NoError(t, f.sched.Start(context.Background()))
		f.sched.Stop(context.Background())
	}

	assert.NotContains(t, logs.String(), LogMsgSurfaceEnded)
	assert.Len(t, f.stops.Reasons(), 20)
	for _, r := range f.stops.Reasons() {
		assert.Equal(t, domain.StopReasonRequested, r)
	}
}

func TestSetInterval_FinishedSessionDoesNotBlock(t *testing.T) {
	f := newFixture(t, &stubRecognizer{})

	// A session whose loop already exited: nobody reads reschedule
	done := make(chan struct{})
	close(done)
	f.sched.mu.Lock()
	f.sched.session = &session{reschedule: make(chan time.Duration, 1), done: done}
	f.sched.mu.Unlock()
	t.Cleanup(func() {
		f.sched.mu.Lock()
		f.sched.session = nil
		f.sched.mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.sched.SetInterval(time.Minute)
		}()
	}
	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("SetInterval blocked on a finished session")
	}
	assert.Equal(t, time.Minute, f.sched.Interval())
}

func TestSetInterval(t *testing.T) {
	f := newFixture(t, &stubRecognizer{})

	assert.ErrorIs(t, f.sched.SetInterval(0), domain.ErrInvalidInterval)
	assert.ErrorIs(t, f.sched.SetInterval(-time.Second), domain.ErrInvalidInterval)
	assert.ErrorIs(t, f.sched.SetInterval(2*time.Hour), domain.ErrInvalidInterval)

	require.NoError(t, f.sched.SetInterval(time.Minute))
	assert.Equal(t, time.Minute, f.sched.Interval())
	assert.Equal(t, time.Minute, f.sched.State().CaptureInterval)
}

func TestState_Countdown(t *testing.T) {
	f := newFixture(t, &stubRecognizer{})
	require.NoError(t, f.sched.SetInterval(time.Minute))
	require.NoError(t, f.sched.Start(context.Background()))

	assert.Eventually(t, func() bool { return f.sched.State().SecondsUntilNextCapture >= 59 }, time.Second, time.Millisecond)
	assert.LessOrEqual(t, f.sched.State().SecondsUntilNextCapture, 60)

	// Changing the interval reschedules from now
	require.NoError(t, f.sched.SetInterval(10*time.Second))
	assert.Eventually(t, func() bool {
		s := f.sched.State().SecondsUntilNextCapture
		return s <= 10 && s >= 9
	}, time.Second, time.Millisecond)

	f.sched.Stop(context.Background())
	assert.Equal(t, 0, f.sched.State().SecondsUntilNextCapture)
}

func TestCapture_RecognizerErrorsAreNotFatal(t *testing.T) {
	rec := &failingRecognizer{}
	f := newFixture(t, &stubRecognizer{})
	f.sched.recognizer = rec

	require.NoError(t, f.sched.Start(context.Background()))
	assert.Eventually(t, func() bool { return rec.calls.Load() >= 3 }, time.Second, time.Millisecond)
	assert.Equal(t, domain.PhaseTracking, f.sched.Phase())
	assert.Empty(t, f.engine.History())
}

type failingRecognizer struct {
	calls atomic.Int32
}

func (r *failingRecognizer) Ready() bool { return true }

func (r *failingRecognizer) Recognize(context.Context, image.Image) (domain.OCRReading, error) {
	r.calls.Add(1)
	return domain.OCRReading{}, errors.New("tesseract failed")
}
