package entities

import "time"

// Persisted session keys, shared by every session storage
const (
	SessionKeyToken        = "hms_token"
	SessionKeyRefreshToken = "hms_refresh_token"
	SessionKeyUser         = "hms_user"
)

// SessionState is the observable state of an auth session
type SessionState struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
	IsLoading       bool  `json:"isLoading"`
}

// TokenClaims are the access-token claims shown in the session view.
// They are decoded without verification and never used for authorization.
type TokenClaims struct {
	UserID    int64     `json:"user_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	IssuedAt  time.Time `json:"issued_at,omitempty"`
}

// Expired reports whether the claims carry an expiry before now
func (c *TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}
