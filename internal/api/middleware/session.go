package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/hms-frontdesk/internal/application/loaders"
	"github.com/zatekoja/hms-frontdesk/internal/application/workspace"
	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
)

// SessionCookie is the cookie carrying the browser session id
const SessionCookie = "hms_session"

// WorkspaceSource resolves the workspace of a session id
type WorkspaceSource interface {
	Get(ctx context.Context, sessionID string) (*workspace.Workspace, error)
}

// CookieConfig controls the session cookie
type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

// SessionGate attaches the workspace of the request's browser session,
// issuing a new session cookie when none or a malformed one is sent.
func SessionGate(source WorkspaceSource, cookie CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if c, err := r.Cookie(SessionCookie); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					sessionID = c.Value
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(cookie.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cookie.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := observability.WithSessionID(r.Context(), sessionID)
			ws, err := source.Get(ctx, sessionID)
			if err != nil {
				observability.LoggerFromContext(ctx).Error().Err(err).Msg("Failed to restore session")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "session unavailable"})
				return
			}

			ctx = workspace.WithContext(ctx, ws)
			ctx = loaders.WithLoaders(ctx, loaders.NewLoaders(ws.Patients))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth answers 401 with a redirect to the login page unless the
// session is authenticated. It is evaluated on every request.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws := workspace.FromContext(r.Context())
		if ws == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"redirect": "/login"})
			return
		}
		state := ws.Session.Snapshot()
		if !state.IsAuthenticated || state.User == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"redirect": "/login"})
			return
		}

		ws.Authenticated(r.Context(), state.User)
		next.ServeHTTP(w, r)
	})
}

// RequireRole answers 403 with a redirect to the dashboard index when the
// signed-in user has none of roles
func RequireRole(roles ...entities.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := workspace.FromContext(r.Context()).Session.CurrentUser()
			for _, role := range roles {
				if user != nil && user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSON(w, http.StatusForbidden, map[string]string{"redirect": "/dashboard"})
		}))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
