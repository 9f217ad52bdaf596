// Package scheduler drives periodic capture and OCR while tracking is on.
package scheduler

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/osse101/ExpTracker_Go/internal/capture"
	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/event"
	"github.com/osse101/ExpTracker_Go/internal/logger"
	"github.com/osse101/ExpTracker_Go/internal/metrics"
	"github.com/osse101/ExpTracker_Go/internal/ocr"
	"github.com/osse101/ExpTracker_Go/internal/region"
	"github.com/osse101/ExpTracker_Go/internal/worker"
)

// RegionSource supplies the selected region. *region.Selector satisfies it.
type RegionSource interface {
	NormalizedRegion() (domain.NormalizedRegion, bool)
}

// SampleSink receives every OCR sample. *tracking.Engine satisfies it.
type SampleSink interface {
	Accept(sample domain.CaptureSample) domain.SampleDecision
	CurrentExp() *int64
}

// Options configure a Scheduler.
type Options struct {
	Interval time.Duration
	Bus      event.Bus
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

type session struct {
	ctx        context.Context
	cancel     context.CancelFunc
	surface    capture.Surface
	reschedule chan time.Duration
	done       chan struct{}
	next       atomic.Int64 // unix nanos of the next capture
}

// Scheduler owns the Idle -> Ready -> Tracking lifecycle. It is the only
// writer of the in-flight flag.
type Scheduler struct {
	regions    RegionSource
	recognizer ocr.Recognizer
	sink       SampleSink
	bus        event.Bus
	pool       *worker.Pool
	now        func() time.Time

	mu       sync.Mutex
	surface  capture.Surface
	interval time.Duration
	session  *session
	closed   bool

	inFlight atomic.Bool
}

// New creates a scheduler and starts its OCR worker.
func New(regions RegionSource, recognizer ocr.Recognizer, sink SampleSink, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = domain.DefaultCaptureInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	pool := worker.NewPool(1, OCRQueueSize)
	pool.Start()

	return &Scheduler{
		regions:    regions,
		recognizer: recognizer,
		sink:       sink,
		bus:        opts.Bus,
		pool:       pool,
		now:        opts.Now,
		interval:   opts.Interval,
	}
}

// AttachSurface sets the capture surface, closing a previously attached one.
// It is rejected while tracking.
func (s *Scheduler) AttachSurface(surface capture.Surface) error {
	s.mu.Lock()
	if s.session != nil {
		s.mu.Unlock()
		return domain.ErrAlreadyTracking
	}
	prev := s.surface
	s.surface = surface
	s.mu.Unlock()

	if prev != nil && prev != surface {
		if err := prev.Close(); err != nil {
			logger.Warn(LogMsgSurfaceCloseError, "error", err)
		}
	}
	logger.Info(LogMsgSurfaceAttached)
	return nil
}

// Surface returns the attached capture surface, or nil.
func (s *Scheduler) Surface() capture.Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface
}

// Start begins tracking. The first capture fires immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	if s.session != nil {
		s.mu.Unlock()
		return domain.ErrAlreadyTracking
	}
	r, ok := s.regions.NormalizedRegion()
	if !ok {
		s.mu.Unlock()
		return domain.ErrNoRegion
	}
	if s.recognizer == nil || !s.recognizer.Ready() {
		s.mu.Unlock()
		return domain.ErrOCRNotReady
	}
	if s.surface == nil || s.closed {
		s.mu.Unlock()
		return domain.ErrNoCaptureSurface
	}

	// The session outlives the request that started it
	sctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		ctx:        sctx,
		cancel:     cancel,
		surface:    s.surface,
		reschedule: make(chan time.Duration, 1),
		done:       make(chan struct{}),
	}
	sess.next.Store(s.now().UnixNano())
	s.session = sess
	interval := s.interval
	s.mu.Unlock()

	go s.loop(sess, interval)

	log.Info(LogMsgTrackingStarted, "interval", interval, "region", r)
	s.publish(ctx, event.NewTrackingStartedEvent(interval, r))
	return nil
}

// Stop ends tracking, cancels any in-flight OCR and releases the surface.
// Stopping an idle scheduler is a no-op.
func (s *Scheduler) Stop(ctx context.Context) {
	sess := s.teardown(ctx, domain.StopReasonRequested)
	if sess == nil {
		return
	}
	select {
	case <-sess.done:
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgStopWaitTimedOut, "error", ctx.Err())
	}
}

// teardown is the single exit path for a session. It returns the session it
// ended, or nil if none was running.
func (s *Scheduler) teardown(ctx context.Context, reason domain.StopReason) *session {
	s.mu.Lock()
	sess := s.session
	if sess == nil {
		s.mu.Unlock()
		return nil
	}
	s.session = nil
	surf := s.surface
	s.surface = nil
	s.mu.Unlock()

	sess.cancel()
	if surf != nil {
		if err := surf.Close(); err != nil {
			logger.Warn(LogMsgSurfaceCloseError, "error", err)
		}
	}

	logger.FromContext(ctx).Info(LogMsgTrackingStopped, "reason", reason)
	s.publish(ctx, event.NewTrackingStoppedEvent(reason))
	return sess
}

// Close stops tracking and the OCR worker. The scheduler cannot be restarted.
func (s *Scheduler) Close() {
	s.Stop(context.Background())

	s.mu.Lock()
	s.closed = true
	surf := s.surface
	s.surface = nil
	s.mu.Unlock()

	if surf != nil {
		_ = surf.Close()
	}
	s.pool.Stop()
}

// SetInterval changes the capture interval. A running session reschedules
// its next capture one new interval from now.
func (s *Scheduler) SetInterval(d time.Duration) error {
	if d < domain.MinCaptureInterval || d > domain.MaxCaptureInterval {
		return fmt.Errorf("%w: %s not in [%s, %s]", domain.ErrInvalidInterval, d,
			domain.MinCaptureInterval, domain.MaxCaptureInterval)
	}

	s.mu.Lock()
	s.interval = d
	sess := s.session
	s.mu.Unlock()

	if sess != nil {
		// Replace any pending change
		select {
		case <-sess.reschedule:
		default:
		}
		select {
		case sess.reschedule <- d:
		case <-sess.done:
		}
	}
	logger.Info(LogMsgIntervalChanged, "interval", d)
	return nil
}

// Interval returns the capture interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Phase reports the lifecycle state.
func (s *Scheduler) Phase() domain.TrackerPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phaseLocked()
}

func (s *Scheduler) phaseLocked() domain.TrackerPhase {
	if s.session != nil {
		return domain.PhaseTracking
	}
	if s.surface == nil || s.recognizer == nil || !s.recognizer.Ready() {
		return domain.PhaseIdle
	}
	if _, ok := s.regions.NormalizedRegion(); !ok {
		return domain.PhaseIdle
	}
	return domain.PhaseReady
}

// State returns the externally visible tracking state.
func (s *Scheduler) State() domain.TrackerState {
	s.mu.Lock()
	phase := s.phaseLocked()
	interval := s.interval
	sess := s.session
	s.mu.Unlock()

	st := domain.TrackerState{
		Phase:           phase,
		IsTracking:      phase == domain.PhaseTracking,
		CurrentExp:      s.sink.CurrentExp(),
		CaptureInterval: interval,
	}
	if r, ok := s.regions.NormalizedRegion(); ok {
		st.Region = &r
	}
	if sess != nil {
		remaining := time.Unix(0, sess.next.Load()).Sub(s.now())
		st.SecondsUntilNextCapture = int(math.Max(0, math.Ceil(remaining.Seconds())))
	}
	return st
}

// InFlight reports whether an OCR job is queued or running.
func (s *Scheduler) InFlight() bool {
	return s.inFlight.Load()
}

func (s *Scheduler) loop(sess *session, interval time.Duration) {
	defer close(sess.done)

	s.tick(sess)
	sess.next.Store(s.now().Add(interval).UnixNano())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-sess.ctx.Done():
			return

		case <-sess.surface.Done():
			// A requested stop cancels the session before closing the surface
			if sess.ctx.Err() != nil {
				return
			}
			logger.Warn(LogMsgSurfaceEnded)
			s.teardown(context.Background(), domain.StopReasonSurfaceEnded)
			return

		case d := <-sess.reschedule:
			interval = d
			ticker.Reset(interval)
			sess.next.Store(s.now().Add(interval).UnixNano())

		case <-ticker.C:
			s.tick(sess)
			sess.next.Store(s.now().Add(interval).UnixNano())
		}
	}
}

// tick captures one snapshot and hands it to the OCR worker, unless the
// previous capture is still being recognized.
func (s *Scheduler) tick(sess *session) {
	if !s.inFlight.CompareAndSwap(false, true) {
		metrics.CapturesTotal.WithLabelValues(metrics.CaptureSkipped).Inc()
		logger.Debug(LogMsgCaptureSkipped)
		return
	}

	img, ts, err := s.snapshot(sess)
	if err != nil {
		s.inFlight.Store(false)
		metrics.CapturesTotal.WithLabelValues(metrics.CaptureNoFrame).Inc()
		logger.Debug(LogMsgCaptureFailed, "error", err)
		return
	}

	job := worker.JobFunc(func(context.Context) error {
		defer s.inFlight.Store(false)
		s.recognize(sess, img, ts)
		return nil
	})
	if !s.pool.TryEnqueue(job) {
		s.inFlight.Store(false)
		metrics.CapturesTotal.WithLabelValues(metrics.CaptureSkipped).Inc()
		return
	}
	metrics.CapturesTotal.WithLabelValues(metrics.CaptureDispatched).Inc()
}

// snapshot re-reads the region and the surface size so a resized source is
// always cropped in its current coordinates.
func (s *Scheduler) snapshot(sess *session) (image.Image, time.Time, error) {
	r, ok := s.regions.NormalizedRegion()
	if !ok {
		return nil, time.Time{}, domain.ErrNoRegion
	}
	w, h := sess.surface.Size()
	px, ok := region.ToPixels(r, w, h)
	if !ok {
		return nil, time.Time{}, domain.ErrZeroSurface
	}
	if px.Empty() {
		return nil, time.Time{}, domain.ErrInvalidRegion
	}
	ts := s.now()
	img, err := sess.surface.Snapshot(px)
	if err != nil {
		return nil, time.Time{}, err
	}
	return img, ts, nil
}

func (s *Scheduler) recognize(sess *session, img image.Image, ts time.Time) {
	start := time.Now()
	reading, err := s.recognizer.Recognize(sess.ctx, img)
	metrics.OCRDuration.Observe(time.Since(start).Seconds())

	if sess.ctx.Err() != nil {
		metrics.CapturesTotal.WithLabelValues(metrics.CaptureDropped).Inc()
		logger.Debug(LogMsgStaleResult)
		return
	}
	if err != nil {
		metrics.CapturesTotal.WithLabelValues(metrics.CaptureFailed).Inc()
		logger.Warn(LogMsgOCRFailed, "error", err)
		return
	}

	// Holding mu keeps a result from landing after teardown returns
	s.mu.Lock()
	if s.session != sess {
		s.mu.Unlock()
		metrics.CapturesTotal.WithLabelValues(metrics.CaptureDropped).Inc()
		logger.Debug(LogMsgStaleResult)
		return
	}
	decision := s.sink.Accept(domain.SampleFromReading(ts, reading))
	s.mu.Unlock()

	s.publish(sess.ctx, event.NewSampleEvent(decision))
}

func (s *Scheduler) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
