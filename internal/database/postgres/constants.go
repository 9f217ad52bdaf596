package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeInvalidText is raised when a malformed UUID is compared to a uuid column
	PgErrorCodeInvalidText = "22P02"
)

// Error Messages - Saved Records
const (
	ErrMsgFailedToInsertRecord = "failed to insert saved record"
	ErrMsgFailedToUpdateRecord = "failed to update saved record"
	ErrMsgFailedToDeleteRecord = "failed to delete saved record"
	ErrMsgFailedToGetRecord    = "failed to get saved record"
	ErrMsgFailedToListRecords  = "failed to list saved records"
)

// Error Messages - Preferences
const (
	ErrMsgFailedToGetPreferences  = "failed to get tracker preferences"
	ErrMsgFailedToSavePreferences = "failed to save tracker preferences"
)
