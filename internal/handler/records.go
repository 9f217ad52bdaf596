package handler

import (
	"net/http"

	"github.com/osse101/ExpTracker_Go/internal/domain"
)

// RecordsHandler serves the saved record routes. New records take the
// tracker's current rate.
type RecordsHandler struct {
	tracker Tracker
}

// NewRecordsHandler creates the record handlers.
func NewRecordsHandler(tracker Tracker) *RecordsHandler {
	return &RecordsHandler{tracker: tracker}
}

// HandleList handles GET /records, newest first
// @Summary List saved records
// @Tags records
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} domain.SavedExpRecord
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/records [get]
func (h *RecordsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.tracker.Records().List(r.Context())
	if err != nil {
		respondServiceError(w, r, "list records", err)
		return
	}
	if list == nil {
		list = []domain.SavedExpRecord{}
	}
	respondJSON(w, http.StatusOK, list)
}

// HandleCreate handles POST /records
// @Summary Save a record at the current rate
// @Tags records
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body domain.RecordDraft true "Record"
// @Success 201 {object} domain.SavedExpRecord
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/records [post]
func (h *RecordsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.RecordDraft
	if err := DecodeAndValidateRequest(r, w, &req, "Save record"); err != nil {
		return
	}
	rec, err := h.tracker.SaveRecord(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, "save record", err)
		return
	}
	respondJSON(w, http.StatusCreated, rec)
}

// HandleGet handles GET /records/{id}
// @Summary Get a record
// @Tags records
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Record ID"
// @Success 200 {object} domain.SavedExpRecord
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/records/{id} [get]
func (h *RecordsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathParam(r, w, PathParamRecordID)
	if !ok {
		return
	}
	rec, err := h.tracker.Records().Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "get record", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// HandleUpdate handles PUT /records/{id}
// @Summary Update a record
// @Tags records
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Record ID"
// @Param request body domain.RecordDraft true "Record"
// @Success 200 {object} domain.SavedExpRecord
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/records/{id} [put]
func (h *RecordsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathParam(r, w, PathParamRecordID)
	if !ok {
		return
	}
	var req domain.RecordDraft
	if err := DecodeAndValidateRequest(r, w, &req, "Update record"); err != nil {
		return
	}
	rec, err := h.tracker.Records().Update(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, r, "update record", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// HandleDelete handles DELETE /records/{id}
// @Summary Delete a record
// @Tags records
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Record ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/records/{id} [delete]
func (h *RecordsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathParam(r, w, PathParamRecordID)
	if !ok {
		return
	}
	if err := h.tracker.Records().Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, "delete record", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRecordDeleted})
}

// HandleResetTotal handles POST /records/{id}/reset-total
// @Summary Recompute a record total
// @Tags records
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Record ID"
// @Success 200 {object} domain.SavedExpRecord
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/records/{id}/reset-total [post]
func (h *RecordsHandler) HandleResetTotal(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathParam(r, w, PathParamRecordID)
	if !ok {
		return
	}
	rec, err := h.tracker.Records().ResetTotal(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "reset record total", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}
