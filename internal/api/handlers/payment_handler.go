package handlers

import (
	"net/http"

	"github.com/zatekoja/hms-frontdesk/internal/application/services"
)

// PaymentHandler handles the payment gateway redirect
type PaymentHandler struct{}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler() *PaymentHandler {
	return &PaymentHandler{}
}

type callbackView struct {
	services.PaymentCallbackResult
	Links map[string]string `json:"links"`
}

// Callback handles GET /payment/callback?tx_ref=. It always answers 200;
// the outcome tells success from failure.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	result := ws.Payments.HandleCallback(r.Context(), r.URL.Query().Get("tx_ref"))
	respondWithView(w, r, http.StatusOK, callbackView{
		PaymentCallbackResult: result,
		Links: map[string]string{
			"home":             "/",
			"register_patient": "/dashboard/register-patient",
		},
	})
}
