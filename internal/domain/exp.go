package domain

import "time"

// NormalizedRegion is a capture rectangle expressed as fractions (0..1) of the
// capture surface's width and height. It stays valid across surface resizes.
type NormalizedRegion struct {
	X      float64 `json:"x" validate:"gte=0,lte=1"`
	Y      float64 `json:"y" validate:"gte=0,lte=1"`
	Width  float64 `json:"width" validate:"gt=0,lte=1"`
	Height float64 `json:"height" validate:"gt=0,lte=1"`
}

// PixelRegion is a rectangle in surface pixels. It is always derived from a
// NormalizedRegion and a surface size, never stored as the source of truth.
type PixelRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the rectangle has no area.
func (p PixelRegion) Empty() bool {
	return p.Width <= 0 || p.Height <= 0
}

// OCRReading is what the OCR collaborator returns for one image.
type OCRReading struct {
	Text       string   `json:"text"`
	ExpValue   *int64   `json:"exp_value"`
	Confidence float64  `json:"confidence"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// CaptureSample is one OCR attempt, accepted or not.
type CaptureSample struct {
	Timestamp         time.Time `json:"timestamp"`
	RawText           string    `json:"raw_text"`
	ParsedValue       *int64    `json:"parsed_value"`
	ConfidencePercent float64   `json:"confidence_percent"`
	Percentage        *float64  `json:"percentage,omitempty"`
}

// SampleFromReading builds a CaptureSample from an OCR reading taken at ts.
func SampleFromReading(ts time.Time, r OCRReading) CaptureSample {
	return CaptureSample{
		Timestamp:         ts,
		RawText:           r.Text,
		ParsedValue:       r.ExpValue,
		ConfidencePercent: r.Confidence,
		Percentage:        r.Percentage,
	}
}

// ExpHistoryEntry is an accepted sample. Segment increments every time the
// counter is re-baselined after a confirmed decrease.
type ExpHistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Exp       int64     `json:"exp"`
	Segment   int       `json:"segment"`
}

// SampleOutcome describes what the acceptance engine did with a sample.
type SampleOutcome string

const (
	OutcomeAccepted        SampleOutcome = "accepted"
	OutcomeUnchanged       SampleOutcome = "unchanged"
	OutcomeLowConfidence   SampleOutcome = "low_confidence"
	OutcomeUnparsed        SampleOutcome = "unparsed"
	OutcomeDecreasePending SampleOutcome = "decrease_pending"
	OutcomeRebaselined     SampleOutcome = "rebaselined"
)

// Changed reports whether the outcome modified current experience or history.
func (o SampleOutcome) Changed() bool {
	return o == OutcomeAccepted || o == OutcomeRebaselined
}

// SampleDecision is the result of running a sample through the gates.
type SampleDecision struct {
	Outcome SampleOutcome `json:"outcome"`
	Delta   int64         `json:"delta"`
	Sample  CaptureSample `json:"sample"`
}

// TrackerPhase is the capture scheduler's lifecycle state.
type TrackerPhase string

const (
	PhaseIdle     TrackerPhase = "idle"
	PhaseReady    TrackerPhase = "ready"
	PhaseTracking TrackerPhase = "tracking"
)

// TrackerState is the externally visible tracking state.
type TrackerState struct {
	Phase                   TrackerPhase      `json:"phase"`
	IsTracking              bool              `json:"is_tracking"`
	CurrentExp              *int64            `json:"current_exp"`
	SecondsUntilNextCapture int               `json:"seconds_until_next_capture"`
	CaptureInterval         time.Duration     `json:"capture_interval"`
	Region                  *NormalizedRegion `json:"region,omitempty"`
}

// ScanAttempt is one auto-detect attempt kept for operator diagnosis.
type ScanAttempt struct {
	At         time.Time    `json:"at"`
	Attempt    int          `json:"attempt"`
	Thumbnail  []byte       `json:"thumbnail,omitempty"` // PNG
	Text       string       `json:"text"`
	Confidence float64      `json:"confidence"`
	Matched    bool         `json:"matched"`
	Region     *PixelRegion `json:"region,omitempty"`
}

// StopReason says why a tracking session ended.
type StopReason string

const (
	StopReasonRequested    StopReason = "requested"
	StopReasonSurfaceEnded StopReason = "surface_ended"
	StopReasonShutdown     StopReason = "shutdown"
)
