package handlers

import (
	"net/http"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
)

// UserHandler handles staff user management
type UserHandler struct{}

// NewUserHandler creates a new user handler
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// CreateUser handles POST /dashboard/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	var data entities.CreateUserData
	if err := decodeJSON(r, &data); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	user, err := ws.Users.Create(r.Context(), data)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusCreated, user)
}

// UpdateUser handles PATCH /dashboard/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	id, err := pathID(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	var update entities.UserUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	user, err := ws.Users.Update(r.Context(), id, update)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, user)
}

// DeleteUser handles DELETE /dashboard/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	id, err := pathID(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if err := ws.Users.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, nil)
}
