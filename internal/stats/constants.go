package stats

import "time"

// MinRateWindow is the shortest history span rates are computed over.
// Anything shorter reports a rate of 0.
const MinRateWindow = time.Second

// MinutesPerHour converts per-minute rates to per-hour rates.
const MinutesPerHour = 60

// Display placeholders
const (
	NoValue = "-"
)

// Log messages
const (
	LogMsgStatsUpdated       = "EXP stats updated"
	LogMsgStatsPublishFailed = "Failed to publish stats update"
)
