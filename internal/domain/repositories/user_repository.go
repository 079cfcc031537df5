package repositories

import (
	"context"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
)

// UserRepository defines the interface for staff user operations
type UserRepository interface {
	// List retrieves every staff user
	List(ctx context.Context) ([]entities.User, error)

	// Create registers a new staff user
	Create(ctx context.Context, data entities.CreateUserData) (*entities.User, error)

	// Update applies a partial update to a user
	Update(ctx context.Context, id int64, update entities.UserUpdate) (*entities.User, error)

	// Delete deletes a user
	Delete(ctx context.Context, id int64) error
}
