package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Tracker start rejections
	ErrMsgNoRegion         = "no capture region selected"
	ErrMsgOCRNotReady      = "ocr engine is not ready"
	ErrMsgNoCaptureSurface = "no capture surface attached"
	ErrMsgAlreadyTracking  = "tracking is already running"
	ErrMsgInvalidInterval  = "capture interval must be positive"

	// Region errors
	ErrMsgInvalidRegion  = "invalid region"
	ErrMsgZeroSurface    = "capture surface has no size yet"
	ErrMsgEmptySelection = "selection has no area"

	// Detection errors
	ErrMsgDetectionFailed = "auto-detect failed, please select the region manually"

	// Record errors
	ErrMsgRecordNotFound = "record not found"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrNoRegion         = errors.New(ErrMsgNoRegion)
	ErrOCRNotReady      = errors.New(ErrMsgOCRNotReady)
	ErrNoCaptureSurface = errors.New(ErrMsgNoCaptureSurface)
	ErrAlreadyTracking  = errors.New(ErrMsgAlreadyTracking)
	ErrInvalidInterval  = errors.New(ErrMsgInvalidInterval)

	ErrInvalidRegion  = errors.New(ErrMsgInvalidRegion)
	ErrZeroSurface    = errors.New(ErrMsgZeroSurface)
	ErrEmptySelection = errors.New(ErrMsgEmptySelection)

	// ErrDetectionFailed is recoverable: callers fall back to manual selection.
	ErrDetectionFailed = errors.New(ErrMsgDetectionFailed)

	ErrRecordNotFound = errors.New(ErrMsgRecordNotFound)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
