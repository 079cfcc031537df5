package backend

import (
	"context"
	"fmt"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/repositories"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

// AppointmentAdapter implements the AppointmentRepository interface over the
// REST backend. It is the only place the grouped list shape is flattened.
type AppointmentAdapter struct {
	client *hmsapi.Client
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *hmsapi.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{client: client}
}

func (a *AppointmentAdapter) List(ctx context.Context) ([]entities.Appointment, error) {
	var grouped entities.GroupedAppointments
	if err := a.client.Get(ctx, "/appointments/", &grouped); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return grouped.Flatten(), nil
}

func (a *AppointmentAdapter) ListToday(ctx context.Context) ([]entities.Appointment, error) {
	var grouped entities.GroupedAppointments
	if err := a.client.Get(ctx, "/appointments/today/", &grouped); err != nil {
		return nil, fmt.Errorf("list today's appointments: %w", err)
	}
	return grouped.Flatten(), nil
}

func (a *AppointmentAdapter) GetByID(ctx context.Context, id int64) (*entities.Appointment, error) {
	out := &entities.Appointment{}
	if err := a.client.Get(ctx, fmt.Sprintf("/appointments/%d/", id), out); err != nil {
		return nil, fmt.Errorf("get appointment %d: %w", id, err)
	}
	return out, nil
}

// Create validates the payload before posting it; a follow-up without its
// chain root never reaches the backend.
func (a *AppointmentAdapter) Create(ctx context.Context, data entities.CreateAppointmentData) (*entities.Appointment, error) {
	if err := data.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	out := &entities.Appointment{}
	if err := a.client.Post(ctx, "/appointments/", data, out); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return out, nil
}

func (a *AppointmentAdapter) Update(ctx context.Context, id int64, update entities.AppointmentUpdate) (*entities.Appointment, error) {
	out := &entities.Appointment{}
	if err := a.client.Patch(ctx, fmt.Sprintf("/appointments/%d/", id), update, out); err != nil {
		return nil, fmt.Errorf("update appointment %d: %w", id, err)
	}
	return out, nil
}

func (a *AppointmentAdapter) Delete(ctx context.Context, id int64) error {
	if err := a.client.Delete(ctx, fmt.Sprintf("/appointments/%d/", id)); err != nil {
		return fmt.Errorf("delete appointment %d: %w", id, err)
	}
	return nil
}
