package bootstrap

import "time"

// File system permissions
const (
	DirPermission     = 0755
	LogFilePermission = 0666
)

// Session log files
const (
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFileNamePattern     = "session_%s.log"
	LogFileExtension       = ".log"
	LogFileRetentionCount  = 9
)

// OCRStartupTimeout bounds how long startup waits for the OCR engine.
const OCRStartupTimeout = 30 * time.Second

// Log messages
const (
	LogMsgLoggingInitialized         = "Logging initialized"
	LogMsgStarting                   = "Starting EXP tracker"
	LogMsgConfigurationLoaded        = "Configuration loaded"
	LogMsgConfigWarning              = "Configuration warning"
	LogMsgStorageInitialized         = "Storage initialized"
	LogMsgCaptureSource              = "Capture source configured"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgSSESubscriberRegistered    = "SSE subscriber registered"
	LogMsgDiscordNotifierRegistered  = "Discord notifier registered"
	LogMsgDiscordDisabled            = "Discord notifier disabled, no webhook configured"
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownNotifier       = "Shutting down Discord notifier..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgNotifierShutdownFailed     = "Discord notifier shutdown failed"
	LogMsgOCRCloseFailed             = "OCR engine close failed"
	LogMsgFailedDeleteOldLog         = "Failed to delete old log file"
)

// Error messages
const (
	ErrMsgFailedCreateLogsDir   = "failed to create logs directory"
	ErrMsgFailedOpenLogFile     = "failed to open log file"
	ErrMsgFailedConnectDB       = "failed to connect to database"
	ErrMsgFailedMigrate         = "failed to apply migrations"
	ErrMsgFailedRegisterMetrics = "failed to register metrics collector"
	ErrMsgFailedCreateNotifier  = "failed to create Discord notifier"
	ErrMsgFailedCreateDLDir     = "failed to create dead-letter directory"
	ErrMsgInvalidCaptureSource  = "invalid capture source"
)
