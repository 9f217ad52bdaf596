package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/ExpTracker_Go/internal/handler"
	"github.com/osse101/ExpTracker_Go/internal/logger"
	"github.com/osse101/ExpTracker_Go/internal/metrics"
	"github.com/osse101/ExpTracker_Go/internal/sse"
)

// Options hold everything the HTTP server routes to.
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	AllowedOrigins []string
	Version        string

	Tracker handler.Tracker
	DB      handler.Pinger // nil with in-memory storage
	Hub     *sse.Hub
}

type Server struct {
	httpServer *http.Server
	router     chi.Router
}

// NewServer creates a new Server instance
func NewServer(opts Options) *Server {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	monitor := NewClientMonitor(RequestRateLimit)

	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", HeaderAPIKey},
			ExposedHeaders: []string{HeaderRequestID},
			MaxAge:         CORSMaxAgeSeconds,
		}))
	}
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, monitor))
	r.Use(RateLimitMiddleware(opts.TrustedProxies, monitor))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)

	r.Get(PathHealthz, handler.HandleHealthz())
	r.Get(PathReadyz, handler.HandleReadyz(opts.Tracker, opts.DB))
	r.Get(PathVersion, handler.HandleVersion(opts.Version))
	r.Handle(PathMetrics, promhttp.Handler())
	if opts.Hub != nil {
		r.Get(PathEvents, sse.Handler(opts.Hub))
	}

	r.Route(PathAPI, func(r chi.Router) {
		th := handler.NewTrackerHandler(opts.Tracker)
		r.Route("/tracker", func(r chi.Router) {
			r.Get("/", th.HandleGetState)
			r.Post("/start", th.HandleStart)
			r.Post("/stop", th.HandleStop)
			r.Put("/interval", th.HandleSetInterval)
			r.Put("/confidence", th.HandleSetConfidence)

			r.Route("/region", func(r chi.Router) {
				r.Put("/", th.HandleSetRegion)
				r.Delete("/", th.HandleClearRegion)
				r.Post("/pixels", th.HandleSetPixelRegion)
				r.Post("/drag", th.HandleDrag)
				r.Post("/detect", th.HandleDetectRegion)
			})

			r.Get("/stats", th.HandleGetStats)
			r.Get("/history", th.HandleGetHistory)
			r.Get("/history.csv", th.HandleExportCSV)
			r.Get("/history.xlsx", th.HandleExportXLSX)
			r.Delete("/history", th.HandleResetHistory)

			r.Route("/debug", func(r chi.Router) {
				r.Put("/", th.HandleSetDebug)
				r.Get("/scans", th.HandleGetScans)
				r.Get("/samples", th.HandleGetSamples)
			})
		})

		rh := handler.NewRecordsHandler(opts.Tracker)
		r.Route("/records", func(r chi.Router) {
			r.Get("/", rh.HandleList)
			r.Post("/", rh.HandleCreate)
			r.Get("/{id}", rh.HandleGet)
			r.Put("/{id}", rh.HandleUpdate)
			r.Delete("/{id}", rh.HandleDelete)
			r.Post("/{id}/reset-total", rh.HandleResetTotal)
		})
	})

	// Swagger documentation
	r.Get(PathSwagger+"*", httpSwagger.WrapHandler)

	return &Server{
		router: r,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           r,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush lets the events stream push through the wrapper
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func isQuietPath(path string) bool {
	return strings.HasPrefix(path, PathHealthz) ||
		strings.HasPrefix(path, PathReadyz) ||
		strings.HasPrefix(path, PathMetrics)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isQuietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start serves until Stop. A clean shutdown returns nil.
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	slog.Default().Info(LogMsgServerStopping)
	return s.httpServer.Shutdown(ctx)
}
