package ocr

// MaxPercentage bounds the level-progress percentage a reading may carry.
const MaxPercentage = 100.0

// ExpCharWhitelist restricts recognition of the counter region.
const ExpCharWhitelist = "0123456789,.%[]()EXPexp: "

// Log messages
const (
	LogMsgRecognized      = "OCR reading"
	LogMsgRecognizeFailed = "OCR recognition failed"
	LogMsgLocated         = "Experience field located"
	LogMsgNotLocated      = "Experience field not found in frame"
)
