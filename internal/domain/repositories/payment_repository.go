package repositories

import (
	"context"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
)

// PaymentRepository defines the interface for payment operations
type PaymentRepository interface {
	List(ctx context.Context) ([]entities.Payment, error)
	ListToday(ctx context.Context) ([]entities.Payment, error)
	GetByID(ctx context.Context, id int64) (*entities.Payment, error)

	// Verify asks the backend to verify a gateway payment by transaction reference
	Verify(ctx context.Context, txRef string) (*entities.PaymentVerification, error)

	TotalAmount(ctx context.Context) (float64, error)
	TodayTotal(ctx context.Context) (float64, error)
}
