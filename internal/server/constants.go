package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgServerStopping   = "Server stopping"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
	HeaderRequestID      = "X-Request-ID"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// Route paths
const (
	PathHealthz = "/healthz"
	PathReadyz  = "/readyz"
	PathMetrics = "/metrics"
	PathVersion = "/version"
	PathEvents  = "/events"
	PathAPI     = "/api/v1"
	PathSwagger = "/swagger/"
)

// QueryParamAPIKey carries the key for EventSource clients, which cannot set
// headers. Only honored on the events stream.
const QueryParamAPIKey = "api_key"

// PublicPaths bypass authentication
var PublicPaths = []string{
	PathHealthz,
	PathReadyz,
	PathMetrics,
	PathVersion,
	PathSwagger,
}

// Limits
const (
	MaxRequestBodyBytes  = 1 << 20
	ReadHeaderTimeout    = 5 * time.Second
	CORSMaxAgeSeconds    = 300
	FailedAuthAlertCount = 5
	RequestRateLimit     = 1000
	RateWindow           = 5 * time.Minute
	MaxTrackedClients    = 4096
)

// RedactedValue replaces secrets in logged headers
const RedactedValue = "[REDACTED]"
