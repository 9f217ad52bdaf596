package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/osse101/ExpTracker_Go/internal/detect"
	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/history"
	"github.com/osse101/ExpTracker_Go/internal/logger"
	"github.com/osse101/ExpTracker_Go/internal/records"
)

// Tracker is the tracking session surface the HTTP layer drives.
type Tracker interface {
	Ready() bool
	Start(ctx context.Context) error
	Stop(ctx context.Context)
	State() domain.TrackerState
	SetCaptureInterval(ctx context.Context, d time.Duration) error
	SetMinConfidence(c float64) error

	SetRegion(r domain.NormalizedRegion) error
	SetPixelRegion(p domain.PixelRegion) error
	SelectByDrag(x0, y0, x1, y1 int) error
	ClearRegion()
	PixelRegion() (domain.PixelRegion, bool)
	DetectRegion(ctx context.Context) (*detect.Detection, error)

	SetDebug(on bool)
	Debug() bool
	Scans() []domain.ScanAttempt
	Samples() []domain.SampleDecision

	History() []domain.ExpHistoryEntry
	ResetHistory(ctx context.Context)
	Stats() domain.ExpStats
	Display() domain.ExpDisplay
	ExportCSV(w io.Writer, opts history.CSVOptions) error
	ExportXLSX(w io.Writer) error

	SaveRecord(ctx context.Context, draft domain.RecordDraft) (*domain.SavedExpRecord, error)
	Records() records.Service
}

// IntervalRequest sets the capture interval in seconds.
type IntervalRequest struct {
	Seconds float64 `json:"seconds" validate:"gt=0"`
}

// ConfidenceRequest sets the OCR confidence gate.
type ConfidenceRequest struct {
	MinConfidence *float64 `json:"min_confidence" validate:"required,gte=0,lte=100"`
}

// PixelRegionRequest is a rectangle in capture-surface pixels.
type PixelRegionRequest struct {
	X      int `json:"x" validate:"gte=0"`
	Y      int `json:"y" validate:"gte=0"`
	Width  int `json:"width" validate:"gt=0"`
	Height int `json:"height" validate:"gt=0"`
}

// DragRequest is a completed mouse drag in capture-surface pixels.
type DragRequest struct {
	StartX int `json:"start_x"`
	StartY int `json:"start_y"`
	EndX   int `json:"end_x"`
	EndY   int `json:"end_y"`
}

// DebugRequest toggles auto-detect scan logging.
type DebugRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// TrackerStateResponse is the tracking state plus what the UI needs to draw
// the selection overlay.
type TrackerStateResponse struct {
	domain.TrackerState
	IntervalSeconds float64             `json:"interval_seconds"`
	Ready           bool                `json:"ready"`
	Debug           bool                `json:"debug"`
	Pixels          *domain.PixelRegion `json:"pixels,omitempty"`
}

// StatsResponse carries raw numbers and their display strings.
type StatsResponse struct {
	Stats   domain.ExpStats   `json:"stats"`
	Display domain.ExpDisplay `json:"display"`
}

// TrackerHandler serves the /tracker routes.
type TrackerHandler struct {
	svc Tracker
}

// NewTrackerHandler creates the tracker handlers.
func NewTrackerHandler(svc Tracker) *TrackerHandler {
	return &TrackerHandler{svc: svc}
}

func (h *TrackerHandler) state() TrackerStateResponse {
	st := h.svc.State()
	resp := TrackerStateResponse{
		TrackerState:    st,
		IntervalSeconds: st.CaptureInterval.Seconds(),
		Ready:           h.svc.Ready(),
		Debug:           h.svc.Debug(),
	}
	if px, ok := h.svc.PixelRegion(); ok {
		resp.Pixels = &px
	}
	return resp
}

// HandleGetState handles GET /tracker
// @Summary Get tracking state
// @Tags tracker
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} TrackerStateResponse
// @Router /api/v1/tracker [get]
func (h *TrackerHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.state())
}

// HandleStart handles POST /tracker/start
// @Summary Start tracking
// @Tags tracker
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/tracker/start [post]
func (h *TrackerHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Start(r.Context()); err != nil {
		respondServiceError(w, r, "start", err)
		return
	}
	logger.FromContext(r.Context()).Info(MsgTrackingStarted)
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgTrackingStarted, Data: h.state()})
}

// HandleStop handles POST /tracker/stop
// @Summary Stop tracking
// @Tags tracker
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} DataResponse
// @Router /api/v1/tracker/stop [post]
func (h *TrackerHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	h.svc.Stop(r.Context())
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgTrackingStopped, Data: h.state()})
}

// HandleSetInterval handles PUT /tracker/interval
// @Summary Set capture interval
// @Tags tracker
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body IntervalRequest true "Interval in seconds"
// @Success 200 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/tracker/interval [put]
func (h *TrackerHandler) HandleSetInterval(w http.ResponseWriter, r *http.Request) {
	var req IntervalRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set interval"); err != nil {
		return
	}
	d := time.Duration(req.Seconds * float64(time.Second))
	if err := h.svc.SetCaptureInterval(r.Context(), d); err != nil {
		respondServiceError(w, r, "set interval", err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgIntervalUpdated, Data: h.state()})
}

// HandleSetConfidence handles PUT /tracker/confidence
// @Summary Set OCR confidence gate
// @Tags tracker
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body ConfidenceRequest true "Minimum confidence"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/tracker/confidence [put]
func (h *TrackerHandler) HandleSetConfidence(w http.ResponseWriter, r *http.Request) {
	var req ConfidenceRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set confidence"); err != nil {
		return
	}
	if err := h.svc.SetMinConfidence(*req.MinConfidence); err != nil {
		respondServiceError(w, r, "set confidence", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgConfidenceSet})
}

// HandleSetRegion handles PUT /tracker/region with a normalized rectangle.
// @Summary Set normalized region
// @Tags region
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body domain.NormalizedRegion true "Region as fractions of the surface"
// @Success 200 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/tracker/region [put]
func (h *TrackerHandler) HandleSetRegion(w http.ResponseWriter, r *http.Request) {
	var req domain.NormalizedRegion
	if err := DecodeAndValidateRequest(r, w, &req, "Set region"); err != nil {
		return
	}
	if err := h.svc.SetRegion(req); err != nil {
		respondServiceError(w, r, "set region", err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgRegionSet, Data: h.state()})
}

// HandleSetPixelRegion handles POST /tracker/region/pixels
// @Summary Set region in pixels
// @Tags region
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body PixelRegionRequest true "Region in surface pixels"
// @Success 200 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/tracker/region/pixels [post]
func (h *TrackerHandler) HandleSetPixelRegion(w http.ResponseWriter, r *http.Request) {
	var req PixelRegionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set pixel region"); err != nil {
		return
	}
	p := domain.PixelRegion{X: req.X, Y: req.Y, Width: req.Width, Height: req.Height}
	if err := h.svc.SetPixelRegion(p); err != nil {
		respondServiceError(w, r, "set pixel region", err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgRegionSet, Data: h.state()})
}

// HandleDrag handles POST /tracker/region/drag
// @Summary Set region from a drag
// @Tags region
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body DragRequest true "Drag start and end"
// @Success 200 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/tracker/region/drag [post]
func (h *TrackerHandler) HandleDrag(w http.ResponseWriter, r *http.Request) {
	var req DragRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Drag region"); err != nil {
		return
	}
	if err := h.svc.SelectByDrag(req.StartX, req.StartY, req.EndX, req.EndY); err != nil {
		respondServiceError(w, r, "drag region", err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgRegionSet, Data: h.state()})
}

// HandleClearRegion handles DELETE /tracker/region
// @Summary Clear region
// @Tags region
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} SuccessResponse
// @Router /api/v1/tracker/region [delete]
func (h *TrackerHandler) HandleClearRegion(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearRegion()
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRegionCleared})
}

// HandleDetectRegion handles POST /tracker/region/detect. A failed detection
// is an advisory (422); the client falls back to manual selection.
// @Summary Auto-detect the EXP region
// @Tags region
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} detect.Detection
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/tracker/region/detect [post]
func (h *TrackerHandler) HandleDetectRegion(w http.ResponseWriter, r *http.Request) {
	det, err := h.svc.DetectRegion(r.Context())
	if err != nil {
		respondServiceError(w, r, "detect region", err)
		return
	}
	respondJSON(w, http.StatusOK, det)
}

// HandleGetStats handles GET /tracker/stats
// @Summary Get rates and display strings
// @Tags stats
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Router /api/v1/tracker/stats [get]
func (h *TrackerHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, StatsResponse{Stats: h.svc.Stats(), Display: h.svc.Display()})
}

// HandleGetHistory handles GET /tracker/history
// @Summary Get accepted samples
// @Tags stats
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} domain.ExpHistoryEntry
// @Router /api/v1/tracker/history [get]
func (h *TrackerHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.History())
}

// HandleExportCSV handles GET /tracker/history.csv. Query flags header and
// segments add a header row and the segment column.
// @Summary Export history as CSV
// @Tags stats
// @Produce text/csv
// @Security ApiKeyAuth
// @Param header query bool false "Add a header row"
// @Param segments query bool false "Add the segment column"
// @Success 200 {string} string
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/tracker/history.csv [get]
func (h *TrackerHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	opts := history.CSVOptions{
		Header:   GetBoolQueryParam(r, QueryParamHeader, false),
		Segments: GetBoolQueryParam(r, QueryParamSegments, false),
	}
	buf := getBuffer()
	defer putBuffer(buf)
	if err := h.svc.ExportCSV(buf, opts); err != nil {
		logger.FromContext(r.Context()).Error(LogMsgExportFailed, "format", "csv", "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgExportFailed)
		return
	}
	w.Header().Set(HeaderContentType, ContentTypeCSV)
	w.Header().Set(HeaderDisposition, DispositionCSV)
	_, _ = buf.WriteTo(w)
}

// HandleExportXLSX handles GET /tracker/history.xlsx
// @Summary Export history as XLSX
// @Tags stats
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Success 200 {file} file
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/tracker/history.xlsx [get]
func (h *TrackerHandler) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	buf := getBuffer()
	defer putBuffer(buf)
	if err := h.svc.ExportXLSX(buf); err != nil {
		logger.FromContext(r.Context()).Error(LogMsgExportFailed, "format", "xlsx", "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgExportFailed)
		return
	}
	w.Header().Set(HeaderContentType, ContentTypeXLSX)
	w.Header().Set(HeaderDisposition, DispositionXLSX)
	_, _ = buf.WriteTo(w)
}

// HandleResetHistory handles DELETE /tracker/history. Saved records are kept.
// @Summary Reset history
// @Tags stats
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} SuccessResponse
// @Router /api/v1/tracker/history [delete]
func (h *TrackerHandler) HandleResetHistory(w http.ResponseWriter, r *http.Request) {
	h.svc.ResetHistory(r.Context())
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgHistoryReset})
}
