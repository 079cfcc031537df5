package handlers

import (
	"net/http"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

// AppointmentHandler handles appointment mutations and details
type AppointmentHandler struct{}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler() *AppointmentHandler {
	return &AppointmentHandler{}
}

// UpdateAppointment handles PATCH /dashboard/appointments/{id}
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	id, err := pathID(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	var update entities.AppointmentUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	appointment, err := ws.Appointments.Update(r.Context(), id, update)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, appointment)
}

// DeleteAppointment handles DELETE /dashboard/appointments/{id}
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	id, err := pathID(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if err := ws.Appointments.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, nil)
}

// GetTreatment handles GET /dashboard/appointments/{id}/treatment, the
// treatment recorded during an appointment
func (h *AppointmentHandler) GetTreatment(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	id, err := pathID(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	appointment, err := ws.Appointments.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if appointment.Treatment == nil {
		respondWithAppError(w, r, apperrors.NewNotFoundError("No treatment recorded for this appointment"))
		return
	}

	treatment, err := ws.Treatments.Get(r.Context(), *appointment.Treatment)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, map[string]interface{}{
		"appointment": appointment,
		"treatment":   treatment,
	})
}
