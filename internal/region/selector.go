package region

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// ChangeFunc is called after the selected region changes. A nil region means
// the selection was cleared.
type ChangeFunc func(r *domain.NormalizedRegion)

// Selector owns the current NormalizedRegion. While a drag is in progress the
// pixel rectangle is authoritative; on drag end it is normalized and dropped.
type Selector struct {
	mu        sync.RWMutex
	region    *domain.NormalizedRegion
	selecting bool
	dragging  bool
	anchorX   int
	anchorY   int
	currentX  int
	currentY  int
	onChange  []ChangeFunc
}

// NewSelector creates an empty selector
func NewSelector() *Selector {
	return &Selector{}
}

// OnChange registers fn to be called after every region change.
func (s *Selector) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// StartSelection enters selection mode so the preview accepts drags.
func (s *Selector) StartSelection() {
	s.mu.Lock()
	s.selecting = true
	s.dragging = false
	s.mu.Unlock()
	slog.Debug(LogMsgSelectionStarted)
}

// Selecting reports whether selection mode is active.
func (s *Selector) Selecting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selecting
}

// Dragging reports whether a drag is in progress.
func (s *Selector) Dragging() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dragging
}

// DragBegin anchors a new drag at pixel (x, y) on the preview.
func (s *Selector) DragBegin(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selecting = true
	s.dragging = true
	s.anchorX, s.anchorY = x, y
	s.currentX, s.currentY = x, y
}

// DragMove extends the drag to pixel (x, y). Ignored when no drag is active.
func (s *Selector) DragMove(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dragging {
		return
	}
	s.currentX, s.currentY = x, y
}

// DragEnd normalizes the dragged rectangle against a w x h preview and makes
// it the current region. A zero-area drag clears the selection and returns
// ErrEmptySelection.
func (s *Selector) DragEnd(w, h int) error {
	s.mu.Lock()
	if !s.dragging {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNotDragging)
	}
	px := FromCorners(s.anchorX, s.anchorY, s.currentX, s.currentY)
	s.dragging = false
	s.selecting = false

	if w <= 0 || h <= 0 {
		s.mu.Unlock()
		return domain.ErrZeroSurface
	}

	norm, _ := FromPixels(px, w, h)
	if px.Empty() || norm.Width <= 0 || norm.Height <= 0 {
		s.region = nil
		listeners := s.listeners()
		s.mu.Unlock()
		slog.Debug(LogMsgSelectionEmpty, "x", px.X, "y", px.Y)
		notify(listeners, nil)
		return domain.ErrEmptySelection
	}

	s.region = &norm
	listeners := s.listeners()
	s.mu.Unlock()

	slog.Info(LogMsgSelectionApplied, "x", norm.X, "y", norm.Y, "width", norm.Width, "height", norm.Height)
	notify(listeners, &norm)
	return nil
}

// SetNormalizedRegion replaces the region programmatically (auto-detect,
// loading a saved region). Any drag in progress is abandoned.
func (s *Selector) SetNormalizedRegion(r domain.NormalizedRegion) error {
	if err := Validate(r); err != nil {
		return err
	}

	s.mu.Lock()
	s.region = &r
	s.dragging = false
	s.selecting = false
	listeners := s.listeners()
	s.mu.Unlock()

	slog.Debug(LogMsgRegionOverridden, "x", r.X, "y", r.Y, "width", r.Width, "height", r.Height)
	notify(listeners, &r)
	return nil
}

// SetPixelRegion normalizes an externally supplied pixel rectangle against a
// w x h surface and applies it.
func (s *Selector) SetPixelRegion(p domain.PixelRegion, w, h int) error {
	norm, ok := FromPixels(p, w, h)
	if !ok {
		return domain.ErrZeroSurface
	}
	if norm.Width <= 0 || norm.Height <= 0 {
		return domain.ErrEmptySelection
	}
	return s.SetNormalizedRegion(norm)
}

// ClearSelection drops the region and any drag in progress.
func (s *Selector) ClearSelection() {
	s.mu.Lock()
	hadRegion := s.region != nil
	s.region = nil
	s.dragging = false
	s.selecting = false
	listeners := s.listeners()
	s.mu.Unlock()

	slog.Debug(LogMsgSelectionCleared)
	if hadRegion {
		notify(listeners, nil)
	}
}

// NormalizedRegion returns the current region.
func (s *Selector) NormalizedRegion() (domain.NormalizedRegion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.region == nil {
		return domain.NormalizedRegion{}, false
	}
	return *s.region, true
}

// PixelRegion returns the region in pixels of a w x h surface. While a drag is
// in progress the raw drag rectangle is returned without any conversion.
func (s *Selector) PixelRegion(w, h int) (domain.PixelRegion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dragging {
		return FromCorners(s.anchorX, s.anchorY, s.currentX, s.currentY), true
	}
	if s.region == nil {
		return domain.PixelRegion{}, false
	}
	return ToPixels(*s.region, w, h)
}

// listeners copies the callbacks; caller must hold the lock.
func (s *Selector) listeners() []ChangeFunc {
	return append([]ChangeFunc(nil), s.onChange...)
}

func notify(listeners []ChangeFunc, r *domain.NormalizedRegion) {
	for _, fn := range listeners {
		fn(r)
	}
}
