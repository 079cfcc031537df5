package services

import (
	"context"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/repositories"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
	"github.com/zatekoja/hms-frontdesk/internal/query"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

// UserService manages staff accounts
type UserService struct {
	repo          repositories.UserRepository
	queries       *query.Client
	invalidation  *CacheInvalidationService
	notifications *NotificationService
}

// NewUserService creates a new user service
func NewUserService(
	repo repositories.UserRepository,
	queries *query.Client,
	invalidation *CacheInvalidationService,
	notifications *NotificationService,
) *UserService {
	return &UserService{
		repo:          repo,
		queries:       queries,
		invalidation:  invalidation,
		notifications: notifications,
	}
}

// List returns every staff user
func (s *UserService) List(ctx context.Context) ([]entities.User, error) {
	users, err := query.Fetch(ctx, s.queries, query.KeyUsers, s.repo.List)
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load users"))
	}
	return users, nil
}

// Doctors returns the users with the doctor role. It has its own key
// since it is the option list of the registration wizard.
func (s *UserService) Doctors(ctx context.Context) ([]entities.User, error) {
	doctors, err := query.Fetch(ctx, s.queries, query.KeyDoctors, func(ctx context.Context) ([]entities.User, error) {
		users, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		return FilterByRole(users, entities.RoleDoctor), nil
	})
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load doctors"))
	}
	return doctors, nil
}

// Search filters users by name, email or username
func (s *UserService) Search(ctx context.Context, q string) ([]entities.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.User, 0, len(users))
	for i := range users {
		if users[i].Matches(q) {
			out = append(out, users[i])
		}
	}
	return out, nil
}

// Create registers a staff user
func (s *UserService) Create(ctx context.Context, data entities.CreateUserData) (*entities.User, error) {
	if !data.Role.Valid() {
		return nil, apperrors.NewValidationError("Invalid role")
	}
	user, err := s.repo.Create(ctx, data)
	if err != nil {
		return nil, reportFailure(ctx, s.notifications, err, "Failed to create user")
	}

	s.invalidation.AfterMutation(ctx, MutationCreateUser, user.ID)
	s.notifications.Success(ctx, "User created successfully")
	return user, nil
}

// Update applies a partial update to a user
func (s *UserService) Update(ctx context.Context, id int64, update entities.UserUpdate) (*entities.User, error) {
	if update.Role != nil && !update.Role.Valid() {
		return nil, apperrors.NewValidationError("Invalid role")
	}
	user, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, reportFailure(ctx, s.notifications, err, "Failed to update user")
	}

	s.invalidation.AfterMutation(ctx, MutationUpdateUser, id)
	s.notifications.Success(ctx, "User updated successfully")
	return user, nil
}

// Delete deletes a user. The primary admin is refused without calling the backend.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if id == entities.PrimaryAdminID {
		s.notifications.Error(ctx, "Cannot delete the primary admin")
		return apperrors.NewForbiddenError("Cannot delete the primary admin")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return reportFailure(ctx, s.notifications, err, "Failed to delete user")
	}

	s.invalidation.AfterMutation(ctx, MutationDeleteUser, id)
	s.notifications.Success(ctx, "User deleted successfully")
	return nil
}

// FilterByRole keeps the users holding role
func FilterByRole(users []entities.User, role entities.Role) []entities.User {
	out := make([]entities.User, 0, len(users))
	for _, u := range users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}
