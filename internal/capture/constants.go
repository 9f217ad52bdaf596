package capture

import "time"

// DefaultThumbnailWidth is the width debug thumbnails are scaled to.
const DefaultThumbnailWidth = 160

// FramePollInterval paces the frame reader of live surfaces.
const FramePollInterval = 33 * time.Millisecond

// Error messages
const (
	ErrMsgNoFrame       = "capture surface has no frame yet"
	ErrMsgSurfaceClosed = "capture surface is closed"
	ErrMsgEmptyRect     = "rectangle has no area"
	ErrMsgOutsideFrame  = "rectangle lies outside the frame"
)

// Log messages
const (
	LogMsgSurfaceOpened = "Capture surface opened"
	LogMsgSurfaceEnded  = "Capture surface ended"
	LogMsgSurfaceClosed = "Capture surface closed"
)
