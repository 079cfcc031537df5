package handlers

import (
	"net/http"

	"github.com/zatekoja/hms-frontdesk/internal/application/services"
)

// TreatmentHandler drives the treatment and follow-up flow of a doctor
type TreatmentHandler struct{}

// NewTreatmentHandler creates a new treatment handler
func NewTreatmentHandler() *TreatmentHandler {
	return &TreatmentHandler{}
}

// Start handles POST /dashboard/treatments
func (h *TreatmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	var form services.TreatmentForm
	if err := decodeJSON(r, &form); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	state, err := ws.TreatmentFlow.Start(r.Context(), form)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusCreated, state)
}

type followUpRequest struct {
	// Date is a calendar day, YYYY-MM-DD
	Date string `json:"date"`
}

// ScheduleFollowUp handles POST /dashboard/treatments/follow-up
func (h *TreatmentHandler) ScheduleFollowUp(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	var req followUpRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	state, err := ws.TreatmentFlow.ScheduleFollowUp(r.Context(), req.Date)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusCreated, state)
}

// Skip handles POST /dashboard/treatments/skip
func (h *TreatmentHandler) Skip(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	state, err := ws.TreatmentFlow.Skip()
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, state)
}

// Reset handles POST /dashboard/treatments/reset
func (h *TreatmentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	respondWithView(w, r, http.StatusOK, ws.TreatmentFlow.Reset())
}
