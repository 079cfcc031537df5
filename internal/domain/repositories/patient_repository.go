package repositories

import (
	"context"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
)

// PatientRepository defines the interface for patient operations
type PatientRepository interface {
	List(ctx context.Context) ([]entities.Patient, error)
	ListToday(ctx context.Context) ([]entities.Patient, error)
	GetByID(ctx context.Context, id int64) (*entities.Patient, error)

	// Create registers a patient together with the registration payment
	Create(ctx context.Context, data entities.CreatePatientData) (*entities.Patient, error)

	Update(ctx context.Context, id int64, update entities.PatientUpdate) (*entities.Patient, error)
	Delete(ctx context.Context, id int64) error
}
