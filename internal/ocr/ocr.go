// Package ocr defines the recognizer contract the tracking core consumes and
// the parsing of raw recognized text into experience readings.
package ocr

import (
	"context"
	"image"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// Recognizer turns a captured image into a reading. Implementations may block;
// they should honor ctx cancellation where they can.
type Recognizer interface {
	Ready() bool
	Recognize(ctx context.Context, img image.Image) (domain.OCRReading, error)
}

// Location is the result of scanning a whole frame for the labeled field.
type Location struct {
	Found      bool
	Region     domain.PixelRegion
	Text       string
	Confidence float64
}

// Locator scans a full frame for the labeled experience field.
type Locator interface {
	Locate(ctx context.Context, img image.Image) (Location, error)
}

// Engine is a recognizer that can also locate the field.
type Engine interface {
	Recognizer
	Locator
}
