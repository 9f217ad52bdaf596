package history

import "time"

// CSV layout
const (
	ColumnTimestamp = "timestamp"
	ColumnExp       = "exp"
	ColumnSegment   = "segment"
)

// TimestampLayout is how timestamps are written to exports.
const TimestampLayout = time.RFC3339Nano

// XLSX layout
const (
	SheetName         = "History"
	ColumnGain        = "gain"
	XLSXDateTimeStyle = "yyyy-mm-dd hh:mm:ss"
)

// Error messages
const (
	ErrMsgBadColumnCount = "expected 2 or 3 columns"
	ErrMsgBadTimestamp   = "invalid timestamp"
	ErrMsgBadExp         = "invalid exp value"
	ErrMsgBadSegment     = "invalid segment"
	ErrMsgWriteCSV       = "failed to write history CSV"
	ErrMsgWriteXLSX      = "failed to write history workbook"
)
