package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hms-frontdesk/internal/api/handlers"
	"github.com/zatekoja/hms-frontdesk/internal/application/services"
	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
)

func TestRegistrationHandler_Flow(t *testing.T) {
	// Arrange
	var created map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /patients/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&created)
		writeBody(w, http.StatusCreated, `{"id": 11, "first_name": "Almaz", "last_name": "Tadesse", "queue_number": 4, "payment": {"payment_method": "cash", "amount": "500.00", "status": "paid"}}`)
	})
	ws, _ := newWorkspace(t, mux, entities.User{ID: 3, Role: entities.RoleReceptionist})
	handler := handlers.NewRegistrationHandler()
	ctx := context.Background()

	// Act: payment before info is refused
	w := httptest.NewRecorder()
	handler.SubmitPayment(w, request(ctx, ws, http.MethodPost, "/dashboard/register-patient/payment", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusConflict, w.Code)

	// Act: incomplete info
	w = httptest.NewRecorder()
	handler.SubmitInfo(w, request(ctx, ws, http.MethodPost, "/dashboard/register-patient/info", bytes.NewBufferString(`{"first_name": "Almaz"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please fill in all required fields")

	// Act: complete info, then cash payment
	w = httptest.NewRecorder()
	handler.SubmitInfo(w, request(ctx, ws, http.MethodPost, "/dashboard/register-patient/info",
		bytes.NewBufferString(`{"first_name": "Almaz", "last_name": "Tadesse", "contact_number": "0911000000"}`)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.WizardStepCollectPayment, ws.Wizard.State().Step)

	w = httptest.NewRecorder()
	handler.SubmitPayment(w, request(ctx, ws, http.MethodPost, "/dashboard/register-patient/payment",
		bytes.NewBufferString(`{"assigned_doctor_id": "auto", "payment_method": "cash"}`)))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	state := ws.Wizard.State()
	assert.Equal(t, services.WizardStepConfirmation, state.Step)
	require.NotNil(t, state.Patient)
	assert.Equal(t, int64(11), state.Patient.ID)
	assert.NotContains(t, created, "assigned_doctor_id")
	assert.Contains(t, w.Body.String(), "Patient registered successfully")
}
