package tracker

// Log messages
const (
	LogMsgPreferencesRestored = "Restored tracker preferences"
	LogMsgPreferencesFailed   = "Failed to persist tracker preferences"
	LogMsgRestoreSkipped      = "Skipped restoring saved preference"
	LogMsgSurfaceOpened       = "Opened capture surface"
	LogMsgDetectionFailed     = "Auto-detect failed, manual selection required"
	LogMsgHistoryReset        = "Tracking history reset"
	LogMsgDebugToggled        = "Debug scan log toggled"
	LogMsgPublishFailed       = "Failed to publish tracker event"
)

const ErrMsgNoOpener = "no capture source configured"
