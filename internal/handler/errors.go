package handler

// Generic HTTP error messages for client responses.
// These messages do not expose internal error details.
// Both handlers and tests should reference these constants.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingPathParam      = "Missing %s path parameter"

	ErrMsgExportFailed = "Failed to export history"
)

// User-facing messages derived from domain errors.
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgNoRegionError         = "Select the EXP region first"
	ErrMsgOCRNotReadyError      = "OCR engine is still loading. Please wait."
	ErrMsgNoCaptureSurfaceError = "No capture source is available"
	ErrMsgAlreadyTrackingError  = "Tracking is already running"
	ErrMsgInvalidIntervalError  = "Capture interval is out of range"
	ErrMsgInvalidRegionError    = "Region must lie inside the capture area"
	ErrMsgZeroSurfaceError      = "Capture source has no size yet"
	ErrMsgEmptySelectionError   = "Selection has no area"
	ErrMsgDetectionFailedError  = "Could not find the EXP field. Please select the region manually."
	ErrMsgRecordNotFoundError   = "Record not found"
	ErrMsgInvalidInputError     = "Invalid request. Please check your inputs."
)

// Success messages for API responses.
const (
	MsgTrackingStarted = "Tracking started"
	MsgTrackingStopped = "Tracking stopped"
	MsgIntervalUpdated = "Capture interval updated"
	MsgConfidenceSet   = "Minimum confidence updated"
	MsgRegionSet       = "Region updated"
	MsgRegionCleared   = "Region cleared"
	MsgHistoryReset    = "History reset"
	MsgDebugUpdated    = "Debug mode updated"
	MsgRecordDeleted   = "Record deleted"
)

// Log messages.
const (
	LogMsgDecodeFailed     = "Failed to decode request"
	LogMsgRequestDecoded   = "Request decoded"
	LogMsgValidationFailed = "Request validation failed"
	LogMsgServiceError     = "Service call failed"
	LogMsgEncodeFailed     = "Failed to encode JSON response"
	LogMsgWriteFailed      = "Failed to write response buffer"
	LogMsgReadinessFailed  = "Readiness check failed"
	LogMsgExportFailed     = "History export failed"
)

// Content types and headers.
const (
	ContentTypeJSON      = "application/json"
	ContentTypeCSV       = "text/csv"
	ContentTypeXLSX      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	HeaderContentType    = "Content-Type"
	HeaderDisposition    = "Content-Disposition"
	DispositionCSV       = `attachment; filename="exp_history.csv"`
	DispositionXLSX      = `attachment; filename="exp_history.xlsx"`
	QueryParamHeader     = "header"
	QueryParamSegments   = "segments"
	PathParamRecordID    = "id"
	HealthStatusOK       = "ok"
	HealthStatusUnavail  = "unavailable"
	HealthMsgDatabase    = "database connection failed"
	HealthMsgOCRNotReady = "ocr engine not ready"
)
