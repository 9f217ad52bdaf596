package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// Validate rejects configurations the tracker cannot run with. All problems
// are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.APIKey == "" {
		errs = append(errs, fmt.Errorf("API_KEY environment variable must be set for security"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.CaptureInterval < domain.MinCaptureInterval || c.CaptureInterval > domain.MaxCaptureInterval {
		errs = append(errs, fmt.Errorf("%s must be between %s and %s, got %s",
			EnvCaptureInterval, domain.MinCaptureInterval, domain.MaxCaptureInterval, c.CaptureInterval))
	}
	if c.MinOCRConfidence < 0 || c.MinOCRConfidence > 100 {
		errs = append(errs, fmt.Errorf("%s must be between 0 and 100, got %g", EnvMinOCRConfidence, c.MinOCRConfidence))
	}
	if c.DetectMaxRetries <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvDetectMaxRetries, c.DetectMaxRetries))
	}
	if c.DetectBackoff < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", EnvDetectBackoff))
	}
	if c.DebugLogCapacity <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvDebugLogCapacity, c.DebugLogCapacity))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("%s must be text or json, got %q", EnvLogFormat, c.LogFormat))
	}
	if (c.DiscordWebhookID == "") != (c.DiscordWebhookToken == "") {
		errs = append(errs, fmt.Errorf("%s and %s must be set together", EnvDiscordWebhookID, EnvDiscordWebhookToken))
	}

	switch c.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		var missing []string
		for key, value := range map[string]string{
			EnvDBUser: c.DBUser, EnvDBHost: c.DBHost, EnvDBPort: c.DBPort, EnvDBName: c.DBName,
		} {
			if value == "" {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			errs = append(errs, fmt.Errorf("postgres storage needs %s", strings.Join(missing, ", ")))
		}
	default:
		errs = append(errs, fmt.Errorf("%s must be %s or %s, got %q", EnvStorageBackend, StorageMemory, StoragePostgres, c.StorageBackend))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
}

// Warnings lists settings that work but are probably mistakes.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.UsesPostgres() && c.DBPassword == "postgres" {
		warnings = append(warnings, "DB_PASSWORD is the default value - please use a secure password")
	}
	if c.APIKey == "generate_with_openssl_rand_hex_32" {
		warnings = append(warnings, "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}
	if len(c.CORSAllowedOrigins) == 0 {
		warnings = append(warnings, "CORS_ALLOWED_ORIGINS is empty - browser clients on other origins will be refused")
	}
	return warnings
}
