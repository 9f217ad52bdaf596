package detect

import "time"

// Retry policy
const (
	MaxRetries     = 3
	DefaultBackoff = 500 * time.Millisecond
)

// Error messages
const (
	ErrMsgNoLocator  = "no locator configured"
	ErrMsgNotLocated = "label not found in frame"
)

// Log messages
const (
	LogMsgAttemptFailed = "Auto-detect attempt failed"
	LogMsgDetected      = "Auto-detect located EXP field"
	LogMsgExhausted     = "Auto-detect exhausted retries, manual selection required"
)
