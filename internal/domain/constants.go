package domain

import "time"

// Capture interval defaults. The interval is configuration, not an invariant.
const (
	DefaultCaptureInterval = 60 * time.Second
	MinCaptureInterval     = time.Second
	MaxCaptureInterval     = time.Hour
)

// CaptureIntervalPresets are the intervals offered by the floating panel and
// the modal view.
var (
	FloatingIntervalPresets = []time.Duration{30 * time.Second, 60 * time.Second, 120 * time.Second}
	ModalIntervalPresets    = []time.Duration{3 * time.Second, 5 * time.Second, 10 * time.Second, 15 * time.Second}
)

// DefaultMinConfidence is the confidence gate (percent) applied to OCR readings.
const DefaultMinConfidence = 60.0
