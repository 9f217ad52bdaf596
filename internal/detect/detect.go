// Package detect locates the EXP field on a capture surface without user
// interaction.
package detect

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/osse101/ExpTracker_Go/internal/capture"
	"github.com/osse101/ExpTracker_Go/internal/debuglog"
	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/logger"
	"github.com/osse101/ExpTracker_Go/internal/ocr"
	"github.com/osse101/ExpTracker_Go/internal/region"
)

var errNotLocated = errors.New(ErrMsgNotLocated)

// RegionSetter receives the detected region. *region.Selector satisfies it.
type RegionSetter interface {
	SetNormalizedRegion(r domain.NormalizedRegion) error
}

// Options tune the detector. Zero values fall back to the defaults.
type Options struct {
	MaxRetries    int
	Backoff       time.Duration
	Debug         bool
	DebugCapacity int
}

// Detection is a successful auto-detect result.
type Detection struct {
	Region     domain.NormalizedRegion `json:"region"`
	Pixels     domain.PixelRegion      `json:"pixels"`
	Text       string                  `json:"text"`
	Confidence float64                 `json:"confidence"`
	Attempts   int                     `json:"attempts"`
}

// Detector runs bounded-retry label searches.
type Detector struct {
	locator ocr.Locator
	target  RegionSetter
	opts    Options
	debug   atomic.Bool
	scans   *debuglog.Log[domain.ScanAttempt]
	now     func() time.Time
}

// New creates a detector that hands its result to target.
func New(locator ocr.Locator, target RegionSetter, opts Options) *Detector {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = MaxRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultBackoff
	}
	d := &Detector{
		locator: locator,
		target:  target,
		opts:    opts,
		scans:   debuglog.New[domain.ScanAttempt](opts.DebugCapacity),
		now:     time.Now,
	}
	d.debug.Store(opts.Debug)
	return d
}

// Scans returns the retained debug attempts, most recent first.
func (d *Detector) Scans() []domain.ScanAttempt {
	return d.scans.Entries()
}

// SetDebug toggles retention of scan attempts.
func (d *Detector) SetDebug(on bool) {
	d.debug.Store(on)
}

// Debug reports whether scan attempts are retained.
func (d *Detector) Debug() bool {
	return d.debug.Load()
}

// Detect scans the surface up to MaxRetries times. Exhausting the attempts
// returns ErrDetectionFailed; a cancelled context returns the context error.
func (d *Detector) Detect(ctx context.Context, surface capture.Surface) (*Detection, error) {
	log := logger.FromContext(ctx)

	if d.locator == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDetectionFailed, ErrMsgNoLocator)
	}
	if surface == nil {
		return nil, domain.ErrNoCaptureSurface
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(d.opts.Backoff), uint64(d.opts.MaxRetries-1)),
		ctx,
	)

	var (
		attempts int
		result   *Detection
	)
	op := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempts++
		det, err := d.attempt(ctx, surface, attempts)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			log.Debug(LogMsgAttemptFailed, "attempt", attempts, "error", err)
			return err
		}
		result = det
		return nil
	}

	if err := backoff.Retry(op, policy); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn(LogMsgExhausted, "attempts", attempts, "error", err)
		return nil, fmt.Errorf("%w: after %d attempts: %w", domain.ErrDetectionFailed, attempts, err)
	}

	if err := d.target.SetNormalizedRegion(result.Region); err != nil {
		return nil, err
	}
	log.Info(LogMsgDetected, "attempts", attempts, "text", result.Text,
		"x", result.Region.X, "y", result.Region.Y, "width", result.Region.Width, "height", result.Region.Height)
	return result, nil
}

func (d *Detector) attempt(ctx context.Context, surface capture.Surface, n int) (*Detection, error) {
	scan := domain.ScanAttempt{At: d.now(), Attempt: n}
	debug := d.debug.Load()
	defer func() {
		if debug {
			d.scans.Add(scan)
		}
	}()

	frame, err := surface.Frame()
	if err != nil {
		scan.Text = err.Error()
		return nil, err
	}
	if debug {
		scan.Thumbnail = capture.ThumbnailPNG(frame, capture.DefaultThumbnailWidth)
	}

	loc, err := d.locator.Locate(ctx, frame)
	if err != nil {
		scan.Text = err.Error()
		return nil, err
	}
	scan.Text = loc.Text
	scan.Confidence = loc.Confidence
	if !loc.Found || loc.Region.Empty() {
		return nil, errNotLocated
	}

	// Normalize against the native size, not whatever a preview displays
	w, h := surface.Size()
	norm, ok := region.FromPixels(loc.Region, w, h)
	if !ok {
		return nil, domain.ErrZeroSurface
	}
	if err := region.Validate(norm); err != nil {
		return nil, err
	}

	px := loc.Region
	scan.Matched = true
	scan.Region = &px
	return &Detection{
		Region:     norm,
		Pixels:     px,
		Text:       loc.Text,
		Confidence: loc.Confidence,
		Attempts:   n,
	}, nil
}
