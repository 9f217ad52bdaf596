// Package tracker assembles region selection, auto-detect, scheduling,
// sample acceptance, statistics and saved records into one service.
package tracker

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/osse101/ExpTracker_Go/internal/capture"
	"github.com/osse101/ExpTracker_Go/internal/detect"
	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/event"
	"github.com/osse101/ExpTracker_Go/internal/history"
	"github.com/osse101/ExpTracker_Go/internal/logger"
	"github.com/osse101/ExpTracker_Go/internal/ocr"
	"github.com/osse101/ExpTracker_Go/internal/preferences"
	"github.com/osse101/ExpTracker_Go/internal/records"
	"github.com/osse101/ExpTracker_Go/internal/region"
	"github.com/osse101/ExpTracker_Go/internal/scheduler"
	"github.com/osse101/ExpTracker_Go/internal/stats"
	"github.com/osse101/ExpTracker_Go/internal/tracking"
)

// SurfaceOpener opens a fresh capture surface, the equivalent of the user
// sharing a window again.
type SurfaceOpener func() (capture.Surface, error)

// Options configure a Service. Bus, Records and Preferences are required.
type Options struct {
	Interval      time.Duration
	MinConfidence float64
	Detect        detect.Options
	DebugCapacity int
	Language      language.Tag

	Bus         event.Bus
	Records     records.Service
	Preferences *preferences.Service
	Opener      SurfaceOpener
	// Now stamps captured samples; defaults to time.Now.
	Now func() time.Time
}

// Service is the single entry point the transport layer talks to.
type Service struct {
	ocr       ocr.Engine
	selector  *region.Selector
	history   *history.History
	engine    *tracking.Engine
	scheduler *scheduler.Scheduler
	detector  *detect.Detector
	stats     *stats.EventHandler
	records   records.Service
	prefs     *preferences.Service
	bus       event.Bus
	opener    SurfaceOpener
	lang      language.Tag

	// detectMu keeps auto-detect runs from overlapping.
	detectMu sync.Mutex
}

// New wires the tracker. The scheduler's OCR worker starts immediately;
// call Close to release it.
func New(engine ocr.Engine, opts Options) *Service {
	if opts.Language == language.Und {
		opts.Language = language.English
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = domain.DefaultMinConfidence
	}

	hist := history.New()
	sel := region.NewSelector()
	acc := tracking.NewEngine(opts.MinConfidence, tracking.Options{History: hist, DebugCapacity: opts.DebugCapacity})

	s := &Service{
		ocr:      engine,
		selector: sel,
		history:  hist,
		engine:   acc,
		records:  opts.Records,
		prefs:    opts.Preferences,
		bus:      opts.Bus,
		opener:   opts.Opener,
		lang:     opts.Language,
	}
	s.scheduler = scheduler.New(sel, engine, acc, scheduler.Options{Interval: opts.Interval, Bus: opts.Bus, Now: opts.Now})

	detectOpts := opts.Detect
	if detectOpts.DebugCapacity == 0 {
		detectOpts.DebugCapacity = opts.DebugCapacity
	}
	s.detector = detect.New(engine, sel, detectOpts)

	s.stats = stats.NewEventHandler(s, opts.Bus)
	if opts.Bus != nil {
		s.stats.Register(opts.Bus)
	}
	sel.OnChange(s.regionChanged)
	return s
}

// Restore applies saved preferences: the capture interval and the last
// committed region. Invalid saved values are skipped.
func (s *Service) Restore(ctx context.Context) error {
	if s.prefs == nil {
		return nil
	}
	log := logger.FromContext(ctx)

	prefs, err := s.prefs.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.scheduler.SetInterval(prefs.CaptureInterval); err != nil {
		log.Warn(LogMsgRestoreSkipped, "field", "capture_interval", "error", err)
	}
	if prefs.Region != nil {
		if err := s.selector.SetNormalizedRegion(*prefs.Region); err != nil {
			log.Warn(LogMsgRestoreSkipped, "field", "region", "error", err)
		}
	}
	log.Info(LogMsgPreferencesRestored, "interval", s.scheduler.Interval(), "has_region", prefs.Region != nil)
	return nil
}

// Close stops tracking and releases the OCR worker.
func (s *Service) Close() {
	s.scheduler.Close()
}

// Ready reports whether the OCR engine can take work.
func (s *Service) Ready() bool {
	return s.ocr != nil && s.ocr.Ready()
}

// AttachSurface replaces the capture surface. Rejected while tracking.
func (s *Service) AttachSurface(surface capture.Surface) error {
	return s.scheduler.AttachSurface(surface)
}

// ensureSurface opens a surface through the opener when none is attached.
func (s *Service) ensureSurface(ctx context.Context) (capture.Surface, error) {
	if surf := s.scheduler.Surface(); surf != nil {
		return surf, nil
	}
	if s.opener == nil {
		return nil, domain.ErrNoCaptureSurface
	}
	surf, err := s.opener()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoCaptureSurface, err)
	}
	if err := s.scheduler.AttachSurface(surf); err != nil {
		_ = surf.Close()
		return nil, err
	}
	logger.FromContext(ctx).Info(LogMsgSurfaceOpened)
	return surf, nil
}

// Start begins tracking.
func (s *Service) Start(ctx context.Context) error {
	if s.scheduler.Phase() == domain.PhaseTracking {
		return domain.ErrAlreadyTracking
	}
	if _, ok := s.selector.NormalizedRegion(); !ok {
		return domain.ErrNoRegion
	}
	if !s.Ready() {
		return domain.ErrOCRNotReady
	}
	if _, err := s.ensureSurface(ctx); err != nil {
		return err
	}
	return s.scheduler.Start(ctx)
}

// Stop ends tracking. Stopping when idle is a no-op.
func (s *Service) Stop(ctx context.Context) {
	s.scheduler.Stop(ctx)
}

// State returns the tracking state including the countdown.
func (s *Service) State() domain.TrackerState {
	return s.scheduler.State()
}

// SetCaptureInterval changes and persists the interval.
func (s *Service) SetCaptureInterval(ctx context.Context, d time.Duration) error {
	if err := s.scheduler.SetInterval(d); err != nil {
		return err
	}
	if s.prefs != nil {
		if err := s.prefs.SetCaptureInterval(ctx, d); err != nil {
			logger.FromContext(ctx).Warn(LogMsgPreferencesFailed, "error", err)
		}
	}
	return nil
}

// CaptureInterval returns the current capture interval.
func (s *Service) CaptureInterval() time.Duration {
	return s.scheduler.Interval()
}

// SetMinConfidence changes the OCR confidence gate.
func (s *Service) SetMinConfidence(c float64) error {
	if c < 0 || c > 100 {
		return fmt.Errorf("%w: confidence %g not in [0, 100]", domain.ErrInvalidInput, c)
	}
	s.engine.SetMinConfidence(c)
	return nil
}

// surfaceSize returns the attached surface's size, or ErrZeroSurface.
func (s *Service) surfaceSize() (int, int, error) {
	surf := s.scheduler.Surface()
	if surf == nil {
		return 0, 0, domain.ErrNoCaptureSurface
	}
	w, h := surf.Size()
	if w <= 0 || h <= 0 {
		return 0, 0, domain.ErrZeroSurface
	}
	return w, h, nil
}

// Selector exposes the region selector for drag interactions.
func (s *Service) Selector() *region.Selector {
	return s.selector
}

// SetRegion commits a normalized region.
func (s *Service) SetRegion(r domain.NormalizedRegion) error {
	return s.selector.SetNormalizedRegion(r)
}

// SetPixelRegion commits a rectangle given in surface pixels.
func (s *Service) SetPixelRegion(p domain.PixelRegion) error {
	w, h, err := s.surfaceSize()
	if err != nil {
		return err
	}
	return s.selector.SetPixelRegion(p, w, h)
}

// SelectByDrag runs a full drag from (x0, y0) to (x1, y1) in surface pixels.
func (s *Service) SelectByDrag(x0, y0, x1, y1 int) error {
	w, h, err := s.surfaceSize()
	if err != nil {
		return err
	}
	s.selector.StartSelection()
	s.selector.DragBegin(x0, y0)
	s.selector.DragMove(x1, y1)
	return s.selector.DragEnd(w, h)
}

// ClearRegion drops the selection.
func (s *Service) ClearRegion() {
	s.selector.ClearSelection()
}

// PixelRegion is the selection in current surface pixels.
func (s *Service) PixelRegion() (domain.PixelRegion, bool) {
	w, h, err := s.surfaceSize()
	if err != nil {
		return domain.PixelRegion{}, false
	}
	return s.selector.PixelRegion(w, h)
}

func (s *Service) regionChanged(r *domain.NormalizedRegion) {
	ctx := context.Background()
	if s.prefs != nil {
		if err := s.prefs.SetRegion(ctx, r); err != nil {
			logger.Warn(LogMsgPreferencesFailed, "error", err)
		}
	}
	s.publish(ctx, event.NewRegionChangedEvent(r))
}

// DetectRegion runs auto-detect on the current surface. Failure is an
// advisory: the caller falls back to manual selection.
func (s *Service) DetectRegion(ctx context.Context) (*detect.Detection, error) {
	s.detectMu.Lock()
	defer s.detectMu.Unlock()

	surf, err := s.ensureSurface(ctx)
	if err != nil {
		return nil, err
	}

	det, err := s.detector.Detect(ctx, surf)
	if err != nil {
		if ctx.Err() == nil {
			logger.FromContext(ctx).Warn(LogMsgDetectionFailed, "error", err)
			s.publish(ctx, event.NewRegionDetectionFailedEvent(err))
		}
		return nil, err
	}
	s.publish(ctx, event.NewRegionDetectedEvent(det.Region, det.Text, det.Attempts))
	return det, nil
}

// SetDebug turns the auto-detect scan log on or off.
func (s *Service) SetDebug(on bool) {
	s.detector.SetDebug(on)
	logger.Info(LogMsgDebugToggled, "enabled", on)
}

// Debug reports whether scan logging is on.
func (s *Service) Debug() bool {
	return s.detector.Debug()
}

// Scans returns the recent auto-detect attempts, newest first.
func (s *Service) Scans() []domain.ScanAttempt {
	return s.detector.Scans()
}

// Samples returns the recent sample decisions, newest first.
func (s *Service) Samples() []domain.SampleDecision {
	return s.engine.Samples()
}

// History returns the accepted samples, oldest first.
func (s *Service) History() []domain.ExpHistoryEntry {
	return s.history.Entries()
}

// ResetHistory clears history, the current value and any pending decrease.
// Saved records are untouched.
func (s *Service) ResetHistory(ctx context.Context) {
	s.engine.Reset()
	logger.FromContext(ctx).Info(LogMsgHistoryReset)
	s.publish(ctx, event.NewHistoryResetEvent())
}

// Stats computes the rate summary of the current history.
func (s *Service) Stats() domain.ExpStats {
	return stats.Summarize(s.History(), s.CaptureInterval())
}

// Display formats the summary for the presentation layer.
func (s *Service) Display() domain.ExpDisplay {
	return stats.FormatDisplay(s.Stats(), s.engine.CurrentExp(), s.lang)
}

// ExportCSV writes the history as CSV.
func (s *Service) ExportCSV(w io.Writer, opts history.CSVOptions) error {
	return history.WriteCSV(w, s.History(), opts)
}

// ExportXLSX writes the history as a spreadsheet.
func (s *Service) ExportXLSX(w io.Writer) error {
	return history.WriteXLSX(w, s.History())
}

// SaveRecord stores a record at the current per-minute rate.
func (s *Service) SaveRecord(ctx context.Context, draft domain.RecordDraft) (*domain.SavedExpRecord, error) {
	return s.records.Save(ctx, draft, s.Stats().ExpPerMinute)
}

// Records exposes the saved record store.
func (s *Service) Records() records.Service {
	return s.records
}

func (s *Service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}
