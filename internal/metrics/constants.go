package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Tracking metric names
const (
	MetricNameCapturesTotal   = "exp_captures_total"
	MetricNameOCRDuration     = "exp_ocr_duration_seconds"
	MetricNameSamplesTotal    = "exp_samples_total"
	MetricNameExpGained       = "exp_gained_total"
	MetricNameExpPerMinute    = "exp_per_minute"
	MetricNameTrackingActive  = "exp_tracking_active"
	MetricNameDetectionsTotal = "exp_region_detections_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Tracking metric help text
const (
	HelpTextCapturesTotal   = "Capture ticks by result"
	HelpTextOCRDuration     = "Time spent recognizing one capture in seconds"
	HelpTextSamplesTotal    = "OCR samples by acceptance outcome"
	HelpTextExpGained       = "Total EXP gained across accepted samples"
	HelpTextExpPerMinute    = "Current EXP per minute rate"
	HelpTextTrackingActive  = "1 while a tracking session is running"
	HelpTextDetectionsTotal = "Auto-detect runs by result"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelResult  = "result"
	LabelOutcome = "outcome"
)

// Capture results
const (
	CaptureDispatched = "dispatched"
	CaptureSkipped    = "skipped_in_flight"
	CaptureNoFrame    = "no_frame"
	CaptureFailed     = "failed"
	CaptureDropped    = "dropped_stale"
)

// Detection results
const (
	DetectionSucceeded = "succeeded"
	DetectionFailed    = "failed"
)

// UnmatchedRoute labels requests that did not match a route
const UnmatchedRoute = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// OCRLatencyBuckets covers a Tesseract pass, from 10ms to 20s.
var OCRLatencyBuckets = []float64{.01, .025, .05, .1, .25, .5, 1, 2, 5, 10, 20}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgUnexpectedPayload = "Event payload has unexpected shape"
	LogMsgMetricsRecorded   = "Metrics recorded for event"
)
