package backend

import (
	"context"
	"fmt"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/repositories"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
)

// AuthAdapter implements the AuthRepository interface over the REST backend
type AuthAdapter struct {
	client *hmsapi.Client
}

// NewAuthAdapter creates a new auth adapter
func NewAuthAdapter(client *hmsapi.Client) repositories.AuthRepository {
	return &AuthAdapter{client: client}
}

// Login exchanges credentials for tokens
func (a *AuthAdapter) Login(ctx context.Context, username, password string) (*entities.LoginResponse, error) {
	body := map[string]string{"username": username, "password": password}
	out := &entities.LoginResponse{}
	if err := a.client.Post(ctx, "/accounts/auth/login/", body, out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return out, nil
}

// GetProfile retrieves the signed-in user
func (a *AuthAdapter) GetProfile(ctx context.Context) (*entities.User, error) {
	out := &entities.User{}
	if err := a.client.Get(ctx, "/accounts/users/profile/", out); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return out, nil
}

// UpdateProfile updates the signed-in user
func (a *AuthAdapter) UpdateProfile(ctx context.Context, update entities.ProfileUpdate) (*entities.User, error) {
	out := &entities.User{}
	if err := a.client.Patch(ctx, "/accounts/users/profile/", update, out); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return out, nil
}

// ChangePassword changes the password of the signed-in user
func (a *AuthAdapter) ChangePassword(ctx context.Context, data entities.ChangePasswordData) error {
	if err := a.client.Patch(ctx, "/accounts/users/change-password/", data, nil); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}
