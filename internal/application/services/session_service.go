package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
	"github.com/zatekoja/hms-frontdesk/internal/domain/repositories"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
	"github.com/zatekoja/hms-frontdesk/internal/query"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

const minPasswordLength = 6

var sessionKeys = []string{
	entities.SessionKeyToken,
	entities.SessionKeyRefreshToken,
	entities.SessionKeyUser,
}

// SessionService is the auth store of one session. It persists the token
// pair and the user under fixed keys and exposes the observable state.
type SessionService struct {
	auth          repositories.AuthRepository
	storage       providers.SessionStorage
	queries       *query.Client
	notifications *NotificationService

	mu           sync.RWMutex
	state        entities.SessionState
	onUserChange func()
}

// NewSessionService creates a session service that starts in the loading state
func NewSessionService(
	auth repositories.AuthRepository,
	storage providers.SessionStorage,
	queries *query.Client,
	notifications *NotificationService,
) *SessionService {
	return &SessionService{
		auth:          auth,
		storage:       storage,
		queries:       queries,
		notifications: notifications,
		state:         entities.SessionState{IsLoading: true},
	}
}

// OnUserChange registers fn to run when a login replaces a different signed-in user
func (s *SessionService) OnUserChange(fn func()) {
	s.mu.Lock()
	s.onUserChange = fn
	s.mu.Unlock()
}

// Snapshot returns the current session state
func (s *SessionService) Snapshot() entities.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := s.state
	if state.User != nil {
		user := *state.User
		state.User = &user
	}
	return state
}

// CurrentUser returns the signed-in user, or nil
func (s *SessionService) CurrentUser() *entities.User {
	return s.Snapshot().User
}

// Token returns the persisted access token; it is the TokenSource of the backend client
func (s *SessionService) Token(ctx context.Context) (string, error) {
	token, _, err := s.storage.Get(ctx, entities.SessionKeyToken)
	return token, err
}

func (s *SessionService) setState(user *entities.User, loading bool) {
	s.mu.Lock()
	s.state = entities.SessionState{User: user, IsAuthenticated: user != nil, IsLoading: loading}
	s.mu.Unlock()
}

// Init restores a persisted session. The cached user is reported as
// authenticated at once, then reconciled with the backend profile: a 401
// logs out, any other failure keeps the cached user.
func (s *SessionService) Init(ctx context.Context) error {
	logger := observability.LoggerFromContext(ctx)

	token, hasToken, err := s.storage.Get(ctx, entities.SessionKeyToken)
	if err != nil {
		s.setState(nil, false)
		return fmt.Errorf("failed to read session: %w", err)
	}
	rawUser, hasUser, err := s.storage.Get(ctx, entities.SessionKeyUser)
	if err != nil {
		s.setState(nil, false)
		return fmt.Errorf("failed to read session: %w", err)
	}
	if !hasToken || !hasUser || token == "" {
		s.setState(nil, false)
		return nil
	}

	cached := &entities.User{}
	if err := json.Unmarshal([]byte(rawUser), cached); err != nil {
		logger.Warn().Err(err).Msg("Stored user is unreadable, clearing session")
		return s.clear(ctx)
	}

	s.setState(cached, true)

	profile, err := s.auth.GetProfile(ctx)
	switch {
	case err == nil:
		if err := s.persistUser(ctx, profile); err != nil {
			logger.Warn().Err(err).Msg("Failed to store refreshed profile")
		}
		if s.queries != nil {
			_ = s.queries.SetData(ctx, query.KeyProfile, profile)
		}
		s.setState(profile, false)
	case hmsapi.IsUnauthorized(err):
		logger.Info().Err(err).Msg("Auth initialization failed: token expired or invalid")
		return s.clear(ctx)
	default:
		logger.Warn().Err(err).Msg("Could not verify token, using stored user data")
		s.setState(cached, false)
	}
	return nil
}

// Login authenticates against the backend and establishes the session
func (s *SessionService) Login(ctx context.Context, username, password string) (*entities.User, error) {
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("Username and password are required")
	}
	resp, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Login failed"))
	}
	if err := s.Establish(ctx, resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Establish persists the token pair and user of a login answer. When it
// replaces a different user, the cached queries of the previous one are
// dropped first.
func (s *SessionService) Establish(ctx context.Context, resp *entities.LoginResponse) error {
	s.mu.RLock()
	previous := s.state.User
	onUserChange := s.onUserChange
	s.mu.RUnlock()
	if previous != nil && previous.ID != resp.User.ID {
		if s.queries != nil {
			if err := s.queries.Clear(ctx); err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to clear cached queries")
			}
		}
		if onUserChange != nil {
			onUserChange()
		}
	}

	if err := s.storage.Set(ctx, entities.SessionKeyToken, resp.Access); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if err := s.storage.Set(ctx, entities.SessionKeyRefreshToken, resp.Refresh); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	user := resp.User
	if err := s.persistUser(ctx, &user); err != nil {
		return err
	}
	s.setState(&user, false)
	return nil
}

// Logout clears the persisted keys together and forgets the user
func (s *SessionService) Logout(ctx context.Context) error {
	return s.clear(ctx)
}

func (s *SessionService) clear(ctx context.Context) error {
	s.setState(nil, false)
	if s.queries != nil {
		if err := s.queries.Clear(ctx); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to clear cached queries")
		}
	}
	if err := s.storage.Delete(ctx, sessionKeys...); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *SessionService) persistUser(ctx context.Context, user *entities.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.storage.Set(ctx, entities.SessionKeyUser, string(data)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

// Profile returns the signed-in user's profile through the query cache
func (s *SessionService) Profile(ctx context.Context) (*entities.User, error) {
	user, err := query.Fetch(ctx, s.queries, query.KeyProfile, s.auth.GetProfile)
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load profile"))
	}
	return user, nil
}

// UpdateProfile saves the profile and merges the answer into the stored user
func (s *SessionService) UpdateProfile(ctx context.Context, update entities.ProfileUpdate) (*entities.User, error) {
	updated, err := s.auth.UpdateProfile(ctx, update)
	if err != nil {
		s.notifications.Error(ctx, "Failed to update profile")
		return nil, failure(err, "Failed to update profile")
	}

	_ = s.queries.SetData(ctx, query.KeyProfile, updated)

	merged := mergeUser(s.CurrentUser(), updated)
	if merged != nil {
		if err := s.persistUser(ctx, merged); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to store updated profile")
		}
		s.setState(merged, false)
	}

	s.notifications.Success(ctx, "Profile updated successfully")
	return updated, nil
}

// ChangePassword checks the form locally, then asks the backend
func (s *SessionService) ChangePassword(ctx context.Context, data entities.ChangePasswordData) error {
	var message string
	switch {
	case data.CurrentPassword == "":
		message = "Please enter your current password"
	case data.NewPassword != data.ConfirmPassword:
		message = "New passwords do not match"
	case len(data.NewPassword) < minPasswordLength:
		message = fmt.Sprintf("Password must be at least %d characters", minPasswordLength)
	}
	if message != "" {
		s.notifications.Error(ctx, message)
		return apperrors.NewValidationError(message)
	}

	if err := s.auth.ChangePassword(ctx, data); err != nil {
		message := "Failed to change password"
		if apiErr, ok := hmsapi.AsAPIError(err); ok {
			if field := apiErr.FieldError("new_password"); field != "" {
				message = field
			} else if detail := apiErr.Detail(); detail != "" {
				message = detail
			}
		}
		s.notifications.Error(ctx, message)
		return failure(err, message)
	}

	s.notifications.Success(ctx, "Password changed successfully")
	return nil
}

// mergeUser overlays the non-empty fields of updated on base
func mergeUser(base, updated *entities.User) *entities.User {
	if base == nil {
		return updated
	}
	merged := *base
	if updated.ID != 0 {
		merged.ID = updated.ID
	}
	if updated.Username != "" {
		merged.Username = updated.Username
	}
	if updated.FirstName != "" {
		merged.FirstName = updated.FirstName
	}
	if updated.LastName != "" {
		merged.LastName = updated.LastName
	}
	if updated.Email != "" {
		merged.Email = updated.Email
	}
	if updated.Role != "" {
		merged.Role = updated.Role
	}
	return &merged
}

// DecodeTokenClaims reads the claims of an access token without verifying
// its signature. The result is for display only.
func DecodeTokenClaims(token string) (*entities.TokenClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}

	out := &entities.TokenClaims{}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if id, ok := claims["user_id"].(float64); ok {
		out.UserID = int64(id)
	}
	return out, true
}

// Claims decodes the claims of the persisted access token
func (s *SessionService) Claims(ctx context.Context) (*entities.TokenClaims, bool) {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return nil, false
	}
	return DecodeTokenClaims(token)
}
