package config

import "time"

// Storage backends
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Defaults
const (
	DefaultPort            = 8080
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultEnvironment     = "dev"
	DefaultServiceName     = "exp-tracker"
	DefaultVersion         = "dev"
	DefaultStorage         = StorageMemory
	DefaultDBMaxConns      = 10
	DefaultCaptureSource   = "screen:0"
	DefaultCaptureInterval = 60 * time.Second
	DefaultMinConfidence   = 60.0
	DefaultOCRLanguage     = "eng"
	DefaultDetectRetries   = 3
	DefaultDetectBackoff   = 500 * time.Millisecond
	DefaultDebugCapacity   = 50
	DefaultDeadLetterPath  = "discord_deadletter.jsonl"
	DefaultShutdownTimeout = 10 * time.Second
)

// Environment variable names
const (
	EnvPort                = "PORT"
	EnvLogLevel            = "LOG_LEVEL"
	EnvLogFormat           = "LOG_FORMAT"
	EnvLogDir              = "LOG_DIR"
	EnvEnvironment         = "ENVIRONMENT"
	EnvServiceName         = "SERVICE_NAME"
	EnvVersion             = "VERSION"
	EnvAPIKey              = "API_KEY"
	EnvStorageBackend      = "STORAGE_BACKEND"
	EnvDBUser              = "DB_USER"
	EnvDBPassword          = "DB_PASSWORD"
	EnvDBHost              = "DB_HOST"
	EnvDBPort              = "DB_PORT"
	EnvDBName              = "DB_NAME"
	EnvDBMaxConns          = "DB_MAX_CONNS"
	EnvCaptureSource       = "CAPTURE_SOURCE"
	EnvCaptureInterval     = "CAPTURE_INTERVAL"
	EnvMinOCRConfidence    = "MIN_OCR_CONFIDENCE"
	EnvOCRLanguage         = "OCR_LANGUAGE"
	EnvDetectMaxRetries    = "DETECT_MAX_RETRIES"
	EnvDetectBackoff       = "DETECT_BACKOFF"
	EnvDebugScans          = "DEBUG_SCANS"
	EnvDebugLogCapacity    = "DEBUG_LOG_CAPACITY"
	EnvDiscordWebhookID    = "DISCORD_WEBHOOK_ID"
	EnvDiscordWebhookToken = "DISCORD_WEBHOOK_TOKEN"
	EnvDiscordDeadLetter   = "DISCORD_DEAD_LETTER_PATH"
	EnvCORSAllowedOrigins  = "CORS_ALLOWED_ORIGINS"
	EnvTrustedProxies      = "TRUSTED_PROXIES"
	EnvShutdownTimeout     = "SHUTDOWN_TIMEOUT"
)
