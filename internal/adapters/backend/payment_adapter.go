package backend

import (
	"context"
	"fmt"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/repositories"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
)

// PaymentAdapter implements the PaymentRepository interface over the REST backend
type PaymentAdapter struct {
	client *hmsapi.Client
}

// NewPaymentAdapter creates a new payment adapter
func NewPaymentAdapter(client *hmsapi.Client) repositories.PaymentRepository {
	return &PaymentAdapter{client: client}
}

func (a *PaymentAdapter) List(ctx context.Context) ([]entities.Payment, error) {
	var out []entities.Payment
	if err := a.client.Get(ctx, "/payments/", &out); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

func (a *PaymentAdapter) ListToday(ctx context.Context) ([]entities.Payment, error) {
	var out []entities.Payment
	if err := a.client.Get(ctx, "/payments/today/", &out); err != nil {
		return nil, fmt.Errorf("list today's payments: %w", err)
	}
	return out, nil
}

func (a *PaymentAdapter) GetByID(ctx context.Context, id int64) (*entities.Payment, error) {
	out := &entities.Payment{}
	if err := a.client.Get(ctx, fmt.Sprintf("/payments/%d/", id), out); err != nil {
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}
	return out, nil
}

// Verify asks the backend to check a gateway transaction
func (a *PaymentAdapter) Verify(ctx context.Context, txRef string) (*entities.PaymentVerification, error) {
	out := &entities.PaymentVerification{}
	if err := a.client.Post(ctx, "/payments/webhook/", map[string]string{"tx_ref": txRef}, out); err != nil {
		return nil, fmt.Errorf("verify payment %s: %w", txRef, err)
	}
	return out, nil
}

func (a *PaymentAdapter) TotalAmount(ctx context.Context) (float64, error) {
	var out entities.TotalAmount
	if err := a.client.Get(ctx, "/payments/total_amount/", &out); err != nil {
		return 0, fmt.Errorf("get total amount: %w", err)
	}
	return out.TotalAmount, nil
}

func (a *PaymentAdapter) TodayTotal(ctx context.Context) (float64, error) {
	var out entities.TodayTotal
	if err := a.client.Get(ctx, "/payments/today_total/", &out); err != nil {
		return 0, fmt.Errorf("get today's total: %w", err)
	}
	return out.TodayTotal, nil
}
