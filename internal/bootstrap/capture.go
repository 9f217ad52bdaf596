package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/ExpTracker_Go/internal/capture"
	"github.com/osse101/ExpTracker_Go/internal/capture/source"
	"github.com/osse101/ExpTracker_Go/internal/config"
	"github.com/osse101/ExpTracker_Go/internal/tracker"
)

// SurfaceOpener parses CAPTURE_SOURCE once and returns an opener the
// tracker calls whenever it needs a fresh surface.
func SurfaceOpener(cfg *config.Config) (tracker.SurfaceOpener, error) {
	spec, err := source.Parse(cfg.CaptureSource)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidCaptureSource, err)
	}
	slog.Info(LogMsgCaptureSource, "source", spec.String())
	return func() (capture.Surface, error) {
		return source.Open(spec)
	}, nil
}
