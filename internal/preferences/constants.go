package preferences

const (
	LogMsgPreferencesLoaded  = "Loaded tracker preferences"
	LogMsgPreferencesDefault = "No saved preferences, using defaults"
	LogMsgIntervalSaved      = "Saved capture interval"
	LogMsgRegionSaved        = "Saved capture region"
	LogMsgRegionCleared      = "Cleared saved capture region"
)

const (
	ErrMsgLoadFailed = "failed to load preferences"
	ErrMsgSaveFailed = "failed to save preferences"
)
