package domain

// Event type constants published on the event bus by the tracking core and
// consumed by metrics, SSE and notifications.
//
// Event types follow the pattern: <entity>.<action>
const (
	// EventTypeTrackingStarted is published when a capture session starts
	EventTypeTrackingStarted = "tracking.started"

	// EventTypeTrackingStopped is published when a capture session ends, for any reason
	EventTypeTrackingStopped = "tracking.stopped"

	// EventTypeSampleAccepted is published when a reading changes current experience
	EventTypeSampleAccepted = "exp.sample.accepted"

	// EventTypeSampleRejected is published when a reading is discarded by a gate
	EventTypeSampleRejected = "exp.sample.rejected"

	// EventTypeRegionDetected is published when auto-detect locates the field
	EventTypeRegionDetected = "region.detected"

	// EventTypeRegionDetectionFailed is published when auto-detect gives up
	EventTypeRegionDetectionFailed = "region.detection_failed"

	// EventTypeRegionChanged is published when the selected region is set or cleared
	EventTypeRegionChanged = "region.changed"

	// EventTypeHistoryReset is published when the tracking history is cleared
	EventTypeHistoryReset = "exp.history.reset"

	// EventTypeStatsUpdated is published after rates are recomputed
	EventTypeStatsUpdated = "exp.stats.updated"
)
