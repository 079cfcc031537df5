package repositories

import (
	"context"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment operations.
// List operations return the grouped backend payload already flattened,
// initial appointments first.
type AppointmentRepository interface {
	List(ctx context.Context) ([]entities.Appointment, error)
	ListToday(ctx context.Context) ([]entities.Appointment, error)
	GetByID(ctx context.Context, id int64) (*entities.Appointment, error)
	Create(ctx context.Context, data entities.CreateAppointmentData) (*entities.Appointment, error)
	Update(ctx context.Context, id int64, update entities.AppointmentUpdate) (*entities.Appointment, error)
	Delete(ctx context.Context, id int64) error
}
