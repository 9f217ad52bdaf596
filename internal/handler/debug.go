package handler

import "net/http"

// HandleSetDebug handles PUT /tracker/debug
// @Summary Toggle scan logging
// @Tags debug
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body DebugRequest true "Debug flag"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/tracker/debug [put]
func (h *TrackerHandler) HandleSetDebug(w http.ResponseWriter, r *http.Request) {
	var req DebugRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set debug"); err != nil {
		return
	}
	h.svc.SetDebug(*req.Enabled)
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgDebugUpdated})
}

// HandleGetScans handles GET /tracker/debug/scans
// @Summary Get auto-detect scan log
// @Tags debug
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} domain.ScanAttempt
// @Router /api/v1/tracker/debug/scans [get]
func (h *TrackerHandler) HandleGetScans(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Scans())
}

// HandleGetSamples handles GET /tracker/debug/samples
// @Summary Get sample decisions
// @Tags debug
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} domain.SampleDecision
// @Router /api/v1/tracker/debug/samples [get]
func (h *TrackerHandler) HandleGetSamples(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Samples())
}
