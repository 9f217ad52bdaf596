package discord

import (
	"time"

	"github.com/osse101/ExpTracker_Go/internal/event"
)

// EventTypeAdvisory is the outbox event carrying one webhook message
const EventTypeAdvisory event.Type = "discord.advisory"

// Embed colours
const (
	ColorWarning = 0xF1C40F
	ColorError   = 0xE74C3C
)

// Defaults
const (
	DefaultUsername       = "EXP Tracker"
	DefaultDeadLetterPath = "discord_deadletter.jsonl"
	DefaultRetryDelay     = 2 * time.Second
	DefaultMaxRetries     = 3
)

// Friendly advisory texts
const (
	MsgSurfaceEndedTitle = "⏹️ **Tracking stopped**"
	MsgSurfaceEndedBody  = "The shared window or capture device went away. Share it again and press Start to resume."

	MsgDetectionFailedTitle = "🔍 **Auto-detect failed**"
	MsgDetectionFailedBody  = "Could not find the EXP bar. Please select the region manually."
)

// Log messages
const (
	LogMsgNotifierDisabled = "Discord webhook not configured, advisories disabled"
	LogMsgAdvisoryQueued   = "Queued Discord advisory"
	LogMsgAdvisorySent     = "Sent Discord advisory"
	LogMsgAdvisoryFailed   = "Failed to send Discord advisory"
)

const ErrMsgBadAdvisoryPayload = "invalid advisory payload"
