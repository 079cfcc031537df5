package backend

import (
	"context"
	"fmt"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/repositories"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
)

// TreatmentAdapter implements the TreatmentRepository interface over the REST backend
type TreatmentAdapter struct {
	client *hmsapi.Client
}

// NewTreatmentAdapter creates a new treatment adapter
func NewTreatmentAdapter(client *hmsapi.Client) repositories.TreatmentRepository {
	return &TreatmentAdapter{client: client}
}

func (a *TreatmentAdapter) List(ctx context.Context) ([]entities.Treatment, error) {
	var out []entities.Treatment
	if err := a.client.Get(ctx, "/treatments/", &out); err != nil {
		return nil, fmt.Errorf("list treatments: %w", err)
	}
	return out, nil
}

func (a *TreatmentAdapter) ListToday(ctx context.Context) ([]entities.Treatment, error) {
	var out []entities.Treatment
	if err := a.client.Get(ctx, "/treatments/today/", &out); err != nil {
		return nil, fmt.Errorf("list today's treatments: %w", err)
	}
	return out, nil
}

func (a *TreatmentAdapter) GetByID(ctx context.Context, id int64) (*entities.Treatment, error) {
	out := &entities.Treatment{}
	if err := a.client.Get(ctx, fmt.Sprintf("/treatments/%d/", id), out); err != nil {
		return nil, fmt.Errorf("get treatment %d: %w", id, err)
	}
	return out, nil
}

func (a *TreatmentAdapter) Create(ctx context.Context, data entities.CreateTreatmentData) (*entities.Treatment, error) {
	out := &entities.Treatment{}
	if err := a.client.Post(ctx, "/treatments/", data, out); err != nil {
		return nil, fmt.Errorf("create treatment: %w", err)
	}
	return out, nil
}
