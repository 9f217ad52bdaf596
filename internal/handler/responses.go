package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	// Headers are already sent, so encoding failures can only be logged
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		return
	}
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed service call and writes the mapped response.
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "op", op, "error", err)
	} else {
		log.Warn(LogMsgServiceError, "op", op, "error", err, "status", status)
	}
	respondError(w, status, msg)
}

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and
// messages the operator can act upon.
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrMsgUnknownError
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, ErrMsgRecordNotFoundError
	case errors.Is(err, domain.ErrDetectionFailed):
		return http.StatusUnprocessableEntity, ErrMsgDetectionFailedError
	case errors.Is(err, domain.ErrNoRegion):
		return http.StatusBadRequest, ErrMsgNoRegionError
	case errors.Is(err, domain.ErrOCRNotReady):
		return http.StatusConflict, ErrMsgOCRNotReadyError
	case errors.Is(err, domain.ErrNoCaptureSurface):
		return http.StatusConflict, ErrMsgNoCaptureSurfaceError
	case errors.Is(err, domain.ErrAlreadyTracking):
		return http.StatusConflict, ErrMsgAlreadyTrackingError
	case errors.Is(err, domain.ErrZeroSurface):
		return http.StatusConflict, ErrMsgZeroSurfaceError
	case errors.Is(err, domain.ErrInvalidInterval):
		return http.StatusBadRequest, ErrMsgInvalidIntervalError
	case errors.Is(err, domain.ErrInvalidRegion):
		return http.StatusBadRequest, ErrMsgInvalidRegionError
	case errors.Is(err, domain.ErrEmptySelection):
		return http.StatusBadRequest, ErrMsgEmptySelectionError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
