// Package capture defines the read-only capture surface the tracker samples
// from, plus an in-memory implementation.
package capture

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// Surface is a live source of frames (shared window, video device, display).
// Implementations must never let callers mutate their current frame.
type Surface interface {
	// Size returns the current native pixel size; (0, 0) until the first frame.
	Size() (width, height int)
	// Frame returns a copy of the whole current frame.
	Frame() (image.Image, error)
	// Snapshot returns a copy of the given sub-rectangle of the current frame.
	Snapshot(r domain.PixelRegion) (image.Image, error)
	// Done is closed when the source ends (sharing revoked, device gone) or is closed.
	Done() <-chan struct{}
	// Close releases the underlying capture handle. Safe to call more than once.
	Close() error
}

// ErrNoFrame is returned while a surface has not produced a frame yet.
var ErrNoFrame = errors.New(ErrMsgNoFrame)

// ErrClosed is returned by a surface after Close.
var ErrClosed = errors.New(ErrMsgSurfaceClosed)

// Crop copies r out of img. r is relative to the image origin.
func Crop(img image.Image, r domain.PixelRegion) (image.Image, error) {
	if img == nil {
		return nil, ErrNoFrame
	}
	if r.Empty() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRegion, ErrMsgEmptyRect)
	}
	b := img.Bounds()
	rect := image.Rect(b.Min.X+r.X, b.Min.Y+r.Y, b.Min.X+r.X+r.Width, b.Min.Y+r.Y+r.Height)
	if rect.Intersect(b).Empty() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRegion, ErrMsgOutsideFrame)
	}
	return imaging.Crop(img, rect), nil
}

// ImageSurface serves frames from memory. SetFrame swaps the frame, which is
// how tests and the debug CLI simulate a resized source.
type ImageSurface struct {
	mu     sync.RWMutex
	frame  image.Image
	done   chan struct{}
	once   sync.Once
	closed bool
}

// NewImageSurface creates a surface showing frame (may be nil).
func NewImageSurface(frame image.Image) *ImageSurface {
	return &ImageSurface{frame: frame, done: make(chan struct{})}
}

// OpenImage loads an image file as a still surface.
func OpenImage(path string) (*ImageSurface, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	return NewImageSurface(img), nil
}

// SetFrame replaces the current frame.
func (s *ImageSurface) SetFrame(frame image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = frame
}

// Size implements Surface
func (s *ImageSurface) Size() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.frame == nil {
		return 0, 0
	}
	b := s.frame.Bounds()
	return b.Dx(), b.Dy()
}

// Frame implements Surface
func (s *ImageSurface) Frame() (image.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.frame == nil {
		return nil, ErrNoFrame
	}
	return imaging.Clone(s.frame), nil
}

// Snapshot implements Surface
func (s *ImageSurface) Snapshot(r domain.PixelRegion) (image.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return Crop(s.frame, r)
}

// End simulates the source going away (for example sharing revoked).
func (s *ImageSurface) End() {
	s.once.Do(func() { close(s.done) })
}

// Done implements Surface
func (s *ImageSurface) Done() <-chan struct{} {
	return s.done
}

// Close implements Surface
func (s *ImageSurface) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.End()
	return nil
}
