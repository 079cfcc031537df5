package repositories

import (
	"context"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
)

// AuthRepository defines the account operations of the signed-in user
type AuthRepository interface {
	// Login exchanges credentials for tokens and the user payload
	Login(ctx context.Context, username, password string) (*entities.LoginResponse, error)

	// GetProfile retrieves the signed-in user
	GetProfile(ctx context.Context) (*entities.User, error)

	// UpdateProfile updates the signed-in user
	UpdateProfile(ctx context.Context, update entities.ProfileUpdate) (*entities.User, error)

	// ChangePassword changes the password of the signed-in user
	ChangePassword(ctx context.Context, data entities.ChangePasswordData) error
}
