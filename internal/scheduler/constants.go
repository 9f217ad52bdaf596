package scheduler

// OCRQueueSize is the OCR job queue depth. Single-flight means at most one
// job is ever queued or running.
const OCRQueueSize = 1

// Log messages
const (
	LogMsgTrackingStarted   = "Tracking started"
	LogMsgTrackingStopped   = "Tracking stopped"
	LogMsgSurfaceEnded      = "Capture surface ended, stopping tracking"
	LogMsgSurfaceAttached   = "Capture surface attached"
	LogMsgCaptureSkipped    = "Previous OCR still running, skipping capture"
	LogMsgCaptureFailed     = "Capture failed"
	LogMsgOCRFailed         = "OCR failed"
	LogMsgStaleResult       = "Dropping OCR result from ended session"
	LogMsgIntervalChanged   = "Capture interval changed"
	LogMsgPublishFailed     = "Failed to publish tracker event"
	LogMsgStopWaitTimedOut  = "Timed out waiting for capture loop to exit"
	LogMsgSurfaceCloseError = "Failed to close capture surface"
)
