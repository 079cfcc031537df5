package repositories

import (
	"context"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
)

// TreatmentRepository defines the interface for treatment operations
type TreatmentRepository interface {
	List(ctx context.Context) ([]entities.Treatment, error)
	ListToday(ctx context.Context) ([]entities.Treatment, error)
	GetByID(ctx context.Context, id int64) (*entities.Treatment, error)
	Create(ctx context.Context, data entities.CreateTreatmentData) (*entities.Treatment, error)
}
