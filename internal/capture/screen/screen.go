// Package screen provides a capture surface over one desktop display.
package screen

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/kbinani/screenshot"

	"github.com/osse101/ExpTracker_Go/internal/capture"
	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// Surface captures directly from a display on demand. Bounds are re-read on
// every call so resolution changes are picked up.
type Surface struct {
	display int

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	once   sync.Once
}

// Open selects the display with the given index.
func Open(display int) (*Surface, error) {
	if n := screenshot.NumActiveDisplays(); display < 0 || display >= n {
		return nil, fmt.Errorf("display %d not available (%d active)", display, n)
	}
	slog.Info(capture.LogMsgSurfaceOpened, "kind", "screen", "display", display)
	return &Surface{display: display, done: make(chan struct{})}, nil
}

func (s *Surface) bounds() image.Rectangle {
	return screenshot.GetDisplayBounds(s.display)
}

// Size implements capture.Surface
func (s *Surface) Size() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, 0
	}
	b := s.bounds()
	return b.Dx(), b.Dy()
}

// Frame implements capture.Surface
func (s *Surface) Frame() (image.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, capture.ErrClosed
	}
	return s.capture(s.bounds())
}

// Snapshot implements capture.Surface
func (s *Surface) Snapshot(r domain.PixelRegion) (image.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, capture.ErrClosed
	}
	if r.Empty() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRegion, capture.ErrMsgEmptyRect)
	}
	b := s.bounds()
	rect := image.Rect(b.Min.X+r.X, b.Min.Y+r.Y, b.Min.X+r.X+r.Width, b.Min.Y+r.Y+r.Height).Intersect(b)
	if rect.Empty() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRegion, capture.ErrMsgOutsideFrame)
	}
	return s.capture(rect)
}

func (s *Surface) capture(rect image.Rectangle) (image.Image, error) {
	img, err := screenshot.CaptureRect(rect)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display %d: %w", s.display, err)
	}
	return img, nil
}

// Done implements capture.Surface
func (s *Surface) Done() <-chan struct{} {
	return s.done
}

// Close implements capture.Surface
func (s *Surface) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.once.Do(func() {
		close(s.done)
		slog.Info(capture.LogMsgSurfaceClosed, "kind", "screen", "display", s.display)
	})
	return nil
}
