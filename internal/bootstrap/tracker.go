package bootstrap

import (
	"context"
	"time"

	"golang.org/x/text/language"

	"github.com/osse101/ExpTracker_Go/internal/config"
	"github.com/osse101/ExpTracker_Go/internal/detect"
	"github.com/osse101/ExpTracker_Go/internal/ocr"
	"github.com/osse101/ExpTracker_Go/internal/preferences"
	"github.com/osse101/ExpTracker_Go/internal/records"
	"github.com/osse101/ExpTracker_Go/internal/tracker"
)

// TrackerDependencies holds what the tracker is assembled from.
type TrackerDependencies struct {
	Config  *config.Config
	OCR     ocr.Engine
	Storage *Storage
	Events  *EventSystem
	Opener  tracker.SurfaceOpener
}

// InitializeTracker builds the tracker and restores saved preferences.
func InitializeTracker(ctx context.Context, deps TrackerDependencies) (*tracker.Service, error) {
	cfg := deps.Config

	// Tesseract codes like "eng" map to their base language; combined codes
	// such as "eng+jpn" fall back to English
	lang, err := language.Parse(cfg.OCRLanguage)
	if err != nil {
		lang = language.English
	}

	svc := tracker.New(deps.OCR, tracker.Options{
		Interval:      cfg.CaptureInterval,
		MinConfidence: cfg.MinOCRConfidence,
		Detect: detect.Options{
			MaxRetries:    cfg.DetectMaxRetries,
			Backoff:       cfg.DetectBackoff,
			Debug:         cfg.DebugScans,
			DebugCapacity: cfg.DebugLogCapacity,
		},
		DebugCapacity: cfg.DebugLogCapacity,
		Language:      lang,
		Bus:           deps.Events.Bus,
		Records:       records.NewService(deps.Storage.Records),
		Preferences:   preferences.NewService(deps.Storage.Preferences, cfg.CaptureInterval),
		Opener:        deps.Opener,
	})

	if err := svc.Restore(ctx); err != nil {
		svc.Close()
		return nil, err
	}
	return svc, nil
}

// WaitForOCR polls until the engine reports ready or the timeout passes.
// Tracking cannot start before then; the HTTP API is served regardless.
func WaitForOCR(ctx context.Context, engine ocr.Engine, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for !engine.Ready() {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return true
}
