// Package video provides a capture surface backed by an OpenCV video source
// (camera index, capture card, stream URL or file).
package video

import (
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/osse101/ExpTracker_Go/internal/capture"
	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// Surface reads frames continuously and serves the most recent one. A failed
// read means the track ended and closes Done.
type Surface struct {
	source string
	vc     *gocv.VideoCapture

	mu     sync.RWMutex
	frame  image.Image
	width  int
	height int

	done     chan struct{}
	doneOnce sync.Once
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Open starts capturing from source. Numeric sources are device indices.
func Open(source string) (*Surface, error) {
	var device interface{} = source
	if id, err := strconv.Atoi(source); err == nil {
		device = id
	}

	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open video source %q: %w", source, err)
	}

	s := &Surface{
		source: source,
		vc:     vc,
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.readLoop()

	slog.Info(capture.LogMsgSurfaceOpened, "kind", "video", "source", source)
	return s, nil
}

func (s *Surface) readLoop() {
	defer s.wg.Done()

	mat := gocv.NewMat()
	defer mat.Close()

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		if ok := s.vc.Read(&mat); !ok || mat.Empty() {
			slog.Warn(capture.LogMsgSurfaceEnded, "kind", "video", "source", s.source)
			s.end()
			return
		}

		img, err := mat.ToImage()
		if err == nil {
			s.mu.Lock()
			s.frame = img
			s.width, s.height = mat.Cols(), mat.Rows()
			s.mu.Unlock()
		}

		select {
		case <-s.stop:
			return
		case <-time.After(capture.FramePollInterval):
		}
	}
}

func (s *Surface) end() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Size implements capture.Surface
func (s *Surface) Size() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// Frame implements capture.Surface
func (s *Surface) Frame() (image.Image, error) {
	s.mu.RLock()
	frame := s.frame
	s.mu.RUnlock()
	if frame == nil {
		return nil, capture.ErrNoFrame
	}
	b := frame.Bounds()
	return capture.Crop(frame, domain.PixelRegion{Width: b.Dx(), Height: b.Dy()})
}

// Snapshot implements capture.Surface
func (s *Surface) Snapshot(r domain.PixelRegion) (image.Image, error) {
	s.mu.RLock()
	frame := s.frame
	s.mu.RUnlock()
	return capture.Crop(frame, r)
}

// Done implements capture.Surface
func (s *Surface) Done() <-chan struct{} {
	return s.done
}

// Close stops the reader and releases the device.
func (s *Surface) Close() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
		s.end()
		err = s.vc.Close()
		slog.Info(capture.LogMsgSurfaceClosed, "kind", "video", "source", s.source)
	})
	return err
}
