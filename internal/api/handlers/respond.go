package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/zatekoja/hms-frontdesk/internal/application/workspace"
	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

// envelope is the body of every view and mutation response. Notifications
// carries the toasts raised while serving the request.
type envelope struct {
	Data          interface{}                `json:"data,omitempty"`
	Error         string                     `json:"error,omitempty"`
	Redirect      string                     `json:"redirect,omitempty"`
	Notifications []*entities.WorkspaceEvent `json:"notifications,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithView answers data together with the pending notifications of the session
func respondWithView(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	respondWithJSON(w, statusCode, envelope{
		Data:          data,
		Notifications: drain(r),
	})
}

// respondWithAppError maps err to its status code and answers its message
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	message := "internal server error"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	body := envelope{Error: message, Notifications: drain(r)}
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeUnauthorized:
		body.Redirect = "/login"
	case apperrors.ErrorTypeForbidden:
		body.Redirect = "/dashboard"
	}
	respondWithJSON(w, apperrors.HTTPStatus(err), body)
}

func drain(r *http.Request) []*entities.WorkspaceEvent {
	ws := workspace.FromContext(r.Context())
	if ws == nil {
		return nil
	}
	return ws.Notifications.Drain()
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id")
	}
	return id, nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewValidationError("invalid request payload")
	}
	return nil
}

// current returns the workspace and signed-in user of a gated request
func current(r *http.Request) (*workspace.Workspace, *entities.User) {
	ws := workspace.FromContext(r.Context())
	if ws == nil {
		return nil, nil
	}
	return ws, ws.Session.CurrentUser()
}
