package records

// Log messages
const (
	LogMsgRecordSaved        = "Saved exp record"
	LogMsgRecordUpdated      = "Updated exp record"
	LogMsgRecordDeleted      = "Deleted exp record"
	LogMsgRecordTotalReset   = "Reset exp record total to automatic"
	LogMsgRecordInvalidDraft = "Rejected exp record draft"
)

// Error message fragments
const (
	ErrMsgEmptyID      = "record id is required"
	ErrMsgNegativeRate = "exp per minute must not be negative"
	ErrMsgSaveFailed   = "failed to save record"
	ErrMsgUpdateFailed = "failed to update record"
	ErrMsgDeleteFailed = "failed to delete record"
	ErrMsgLoadFailed   = "failed to load record"
)

// TagNoControl is the validation tag for single-line display names.
const TagNoControl = "nocontrol"
