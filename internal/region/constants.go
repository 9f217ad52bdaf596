package region

// Epsilon absorbs float rounding when checking the unit-square bounds.
const Epsilon = 1e-9

// Validation error details
const (
	ErrMsgNotFinite      = "coordinates must be finite"
	ErrMsgNegativeOrigin = "origin must be non-negative"
	ErrMsgNoArea         = "width and height must be positive"
	ErrMsgOutOfBounds    = "region extends past the surface"
	ErrMsgNotDragging    = "no drag in progress"
)

// Log messages
const (
	LogMsgSelectionStarted = "Region selection started"
	LogMsgSelectionApplied = "Region selection applied"
	LogMsgSelectionEmpty   = "Region selection rejected: empty rectangle"
	LogMsgSelectionCleared = "Region selection cleared"
	LogMsgRegionOverridden = "Region set programmatically"
)
