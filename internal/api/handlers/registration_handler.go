package handlers

import (
	"net/http"

	"github.com/zatekoja/hms-frontdesk/internal/application/services"
)

// RegistrationHandler drives the patient registration wizard of the session
type RegistrationHandler struct{}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler() *RegistrationHandler {
	return &RegistrationHandler{}
}

// State handles GET /dashboard/register-patient/state
func (h *RegistrationHandler) State(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	respondWithView(w, r, http.StatusOK, ws.Wizard.State())
}

// SubmitInfo handles POST /dashboard/register-patient/info
func (h *RegistrationHandler) SubmitInfo(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	var info services.PatientInfo
	if err := decodeJSON(r, &info); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	state, err := ws.Wizard.SubmitInfo(r.Context(), info)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, state)
}

// SubmitPayment handles POST /dashboard/register-patient/payment. A gateway
// payment answers the hosted checkout URL as redirect.
func (h *RegistrationHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	var payment services.PaymentInfo
	if err := decodeJSON(r, &payment); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	result, err := ws.Wizard.SubmitPayment(r.Context(), payment)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, envelope{
		Data:          result,
		Redirect:      result.RedirectURL,
		Notifications: drain(r),
	})
}

// Back handles POST /dashboard/register-patient/back
func (h *RegistrationHandler) Back(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	state, err := ws.Wizard.Back()
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, state)
}

// Reset handles POST /dashboard/register-patient/reset
func (h *RegistrationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	respondWithView(w, r, http.StatusOK, ws.Wizard.Reset())
}
