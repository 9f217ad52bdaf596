package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string // session log files are written here when set
	Environment string
	ServiceName string
	Version     string
	APIKey      string // API key for authentication

	StorageBackend string
	DBUser         string
	DBPassword     string
	DBHost         string
	DBPort         string
	DBName         string
	DBMaxConns     int

	CaptureSource    string
	CaptureInterval  time.Duration
	MinOCRConfidence float64
	OCRLanguage      string
	DetectMaxRetries int
	DetectBackoff    time.Duration
	DebugScans       bool
	DebugLogCapacity int

	DiscordWebhookID    string
	DiscordWebhookToken string
	DiscordDeadLetter   string

	CORSAllowedOrigins []string
	TrustedProxies     []string
	ShutdownTimeout    time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    strings.ToLower(getEnv(EnvLogLevel, DefaultLogLevel)),
		LogFormat:   strings.ToLower(getEnv(EnvLogFormat, DefaultLogFormat)),
		LogDir:      getEnv(EnvLogDir, ""),
		Environment: getEnv(EnvEnvironment, DefaultEnvironment),
		ServiceName: getEnv(EnvServiceName, DefaultServiceName),
		Version:     getEnv(EnvVersion, DefaultVersion),
		APIKey:      getEnv(EnvAPIKey, ""),

		StorageBackend: strings.ToLower(getEnv(EnvStorageBackend, DefaultStorage)),
		DBUser:         getEnv(EnvDBUser, "postgres"),
		DBPassword:     getEnv(EnvDBPassword, "postgres"),
		DBHost:         getEnv(EnvDBHost, "localhost"),
		DBPort:         getEnv(EnvDBPort, "5432"),
		DBName:         getEnv(EnvDBName, "exptracker"),
		DBMaxConns:     getEnvAsInt(EnvDBMaxConns, DefaultDBMaxConns),

		CaptureSource:    getEnv(EnvCaptureSource, DefaultCaptureSource),
		CaptureInterval:  getEnvAsDuration(EnvCaptureInterval, DefaultCaptureInterval),
		MinOCRConfidence: getEnvAsFloat(EnvMinOCRConfidence, DefaultMinConfidence),
		OCRLanguage:      getEnv(EnvOCRLanguage, DefaultOCRLanguage),
		DetectMaxRetries: getEnvAsInt(EnvDetectMaxRetries, DefaultDetectRetries),
		DetectBackoff:    getEnvAsDuration(EnvDetectBackoff, DefaultDetectBackoff),
		DebugScans:       getEnvAsBool(EnvDebugScans, false),
		DebugLogCapacity: getEnvAsInt(EnvDebugLogCapacity, DefaultDebugCapacity),

		DiscordWebhookID:    getEnv(EnvDiscordWebhookID, ""),
		DiscordWebhookToken: getEnv(EnvDiscordWebhookToken, ""),
		DiscordDeadLetter:   getEnv(EnvDiscordDeadLetter, DefaultDeadLetterPath),

		CORSAllowedOrigins: splitList(getEnv(EnvCORSAllowedOrigins, "")),
		TrustedProxies:     splitList(getEnv(EnvTrustedProxies, "")),
		ShutdownTimeout:    getEnvAsDuration(EnvShutdownTimeout, DefaultShutdownTimeout),
	}

	port, err := strconv.Atoi(getEnv(EnvPort, strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back on a missing or bad value
func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// getEnvAsFloat parses a float variable, falling back on a missing or bad value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

// getEnvAsBool parses a boolean variable, falling back on a missing or bad value
func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// getEnvAsDuration parses a duration such as "30s"; a bare number means seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// UsesPostgres reports whether records and preferences live in postgres
func (c *Config) UsesPostgres() bool {
	return c.StorageBackend == StoragePostgres
}

// DiscordEnabled reports whether advisory webhooks are configured
func (c *Config) DiscordEnabled() bool {
	return c.DiscordWebhookID != "" && c.DiscordWebhookToken != ""
}
