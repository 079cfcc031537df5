package handlers

import (
	"net/http"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
)

// AuthHandler handles login, logout and the session view
type AuthHandler struct{}

// NewAuthHandler creates a new auth handler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionView struct {
	entities.SessionState
	Claims *entities.TokenClaims `json:"claims,omitempty"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	user, err := ws.Session.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Info().Str("username", req.Username).Msg("Login refused")
		respondWithAppError(w, r, err)
		return
	}

	ws.Authenticated(r.Context(), user)
	respondWithJSON(w, http.StatusOK, envelope{
		Data:          user,
		Redirect:      "/dashboard",
		Notifications: drain(r),
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	if err := ws.Session.Logout(r.Context()); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	ws.SignedOut()
	respondWithJSON(w, http.StatusOK, envelope{Redirect: "/login"})
}

// Session handles GET /api/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	view := sessionView{SessionState: ws.Session.Snapshot()}
	if view.IsAuthenticated {
		if claims, ok := ws.Session.Claims(r.Context()); ok {
			view.Claims = claims
		}
	}
	respondWithView(w, r, http.StatusOK, view)
}

// Home handles GET /, sending visitors to the dashboard or the login page
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	redirect := "/login"
	if ws.Session.Snapshot().IsAuthenticated {
		redirect = "/dashboard"
	}
	respondWithJSON(w, http.StatusOK, envelope{Redirect: redirect})
}

// LoginPage handles GET /login; a signed-in user is sent to the dashboard
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	state := ws.Session.Snapshot()
	if state.IsAuthenticated {
		respondWithJSON(w, http.StatusOK, envelope{Redirect: "/dashboard"})
		return
	}
	respondWithView(w, r, http.StatusOK, state)
}

// UpdateProfile handles PATCH /dashboard/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	var update entities.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	user, err := ws.Session.UpdateProfile(r.Context(), update)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangePassword handles PATCH /dashboard/profile/password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	err := ws.Session.ChangePassword(r.Context(), entities.ChangePasswordData{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, nil)
}
