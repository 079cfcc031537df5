package backend

import (
	"context"
	"fmt"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/repositories"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
)

// UserAdapter implements the UserRepository interface over the REST backend
type UserAdapter struct {
	client *hmsapi.Client
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *hmsapi.Client) repositories.UserRepository {
	return &UserAdapter{client: client}
}

// List retrieves every staff user
func (a *UserAdapter) List(ctx context.Context) ([]entities.User, error) {
	var out []entities.User
	if err := a.client.Get(ctx, "/accounts/users/", &out); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// Create registers a staff user through the auth registration endpoint
func (a *UserAdapter) Create(ctx context.Context, data entities.CreateUserData) (*entities.User, error) {
	out := &entities.User{}
	if err := a.client.Post(ctx, "/accounts/auth/register/", data, out); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return out, nil
}

// Update applies a partial update to a user
func (a *UserAdapter) Update(ctx context.Context, id int64, update entities.UserUpdate) (*entities.User, error) {
	out := &entities.User{}
	if err := a.client.Patch(ctx, fmt.Sprintf("/accounts/users/%d/", id), update, out); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return out, nil
}

// Delete deletes a user
func (a *UserAdapter) Delete(ctx context.Context, id int64) error {
	if err := a.client.Delete(ctx, fmt.Sprintf("/accounts/users/%d/", id)); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}
