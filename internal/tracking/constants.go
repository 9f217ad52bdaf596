package tracking

// Log messages
const (
	LogMsgSampleAccepted  = "EXP sample accepted"
	LogMsgSampleUnchanged = "EXP sample unchanged"
	LogMsgLowConfidence   = "Discarding low-confidence sample"
	LogMsgUnparsed        = "Discarding unparseable sample"
	LogMsgDecreasePending = "EXP decreased, holding sample until confirmed"
	LogMsgRebaselined     = "EXP decrease confirmed, starting new segment"
	LogMsgTrackingReset   = "Tracking state reset"
)
