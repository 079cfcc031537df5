package handlers

import (
	"net/http"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
)

// PatientHandler handles patient detail and mutations
type PatientHandler struct{}

// NewPatientHandler creates a new patient handler
func NewPatientHandler() *PatientHandler {
	return &PatientHandler{}
}

// GetPatient handles GET /dashboard/patients/{id}
func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	id, err := pathID(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	patient, err := ws.Patients.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, patient)
}

// UpdatePatient handles PATCH /dashboard/patients/{id}
func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	id, err := pathID(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	var update entities.PatientUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	patient, err := ws.Patients.Update(r.Context(), id, update)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, patient)
}

// DeletePatient handles DELETE /dashboard/patients/{id}
func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	id, err := pathID(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if err := ws.Patients.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, nil)
}
