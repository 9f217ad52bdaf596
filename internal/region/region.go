// Package region converts capture rectangles between surface-relative
// fractions and pixels, and builds them from user selections.
package region

import (
	"fmt"
	"math"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// ToPixels converts r to a pixel rectangle on a w x h surface. It reports
// false when the surface has no size yet (video metadata not loaded).
func ToPixels(r domain.NormalizedRegion, w, h int) (domain.PixelRegion, bool) {
	if w <= 0 || h <= 0 {
		return domain.PixelRegion{}, false
	}

	fw, fh := float64(w), float64(h)
	p := domain.PixelRegion{
		X:      int(math.Round(r.X * fw)),
		Y:      int(math.Round(r.Y * fh)),
		Width:  int(math.Round(r.Width * fw)),
		Height: int(math.Round(r.Height * fh)),
	}
	return clampPixels(p, w, h), true
}

// FromPixels converts a pixel rectangle on a w x h surface to fractions. The
// rectangle is clipped to the surface first.
func FromPixels(p domain.PixelRegion, w, h int) (domain.NormalizedRegion, bool) {
	if w <= 0 || h <= 0 {
		return domain.NormalizedRegion{}, false
	}

	p = clampPixels(p, w, h)
	fw, fh := float64(w), float64(h)
	return domain.NormalizedRegion{
		X:      float64(p.X) / fw,
		Y:      float64(p.Y) / fh,
		Width:  float64(p.Width) / fw,
		Height: float64(p.Height) / fh,
	}, true
}

// Validate checks that r lies inside the unit square and has an area.
func Validate(r domain.NormalizedRegion) error {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s", domain.ErrInvalidRegion, ErrMsgNotFinite)
		}
	}
	if r.X < 0 || r.Y < 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRegion, ErrMsgNegativeOrigin)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRegion, ErrMsgNoArea)
	}
	if r.X+r.Width > 1+Epsilon || r.Y+r.Height > 1+Epsilon {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRegion, ErrMsgOutOfBounds)
	}
	return nil
}

// FromCorners builds the rectangle spanned by two points, in any drag direction.
func FromCorners(x0, y0, x1, y1 int) domain.PixelRegion {
	return domain.PixelRegion{
		X:      min(x0, x1),
		Y:      min(y0, y1),
		Width:  absInt(x1 - x0),
		Height: absInt(y1 - y0),
	}
}

func clampPixels(p domain.PixelRegion, w, h int) domain.PixelRegion {
	x0 := clampInt(p.X, 0, w)
	y0 := clampInt(p.Y, 0, h)
	x1 := clampInt(p.X+p.Width, 0, w)
	y1 := clampInt(p.Y+p.Height, 0, h)
	return domain.PixelRegion{X: x0, Y: y0, Width: max(0, x1-x0), Height: max(0, y1-y0)}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
