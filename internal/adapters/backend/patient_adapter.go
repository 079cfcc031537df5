package backend

import (
	"context"
	"fmt"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/repositories"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
)

// PatientAdapter implements the PatientRepository interface over the REST backend
type PatientAdapter struct {
	client *hmsapi.Client
}

// NewPatientAdapter creates a new patient adapter
func NewPatientAdapter(client *hmsapi.Client) repositories.PatientRepository {
	return &PatientAdapter{client: client}
}

func (a *PatientAdapter) List(ctx context.Context) ([]entities.Patient, error) {
	var out []entities.Patient
	if err := a.client.Get(ctx, "/patients/", &out); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return out, nil
}

func (a *PatientAdapter) ListToday(ctx context.Context) ([]entities.Patient, error) {
	var out []entities.Patient
	if err := a.client.Get(ctx, "/patients/today/", &out); err != nil {
		return nil, fmt.Errorf("list today's patients: %w", err)
	}
	return out, nil
}

func (a *PatientAdapter) GetByID(ctx context.Context, id int64) (*entities.Patient, error) {
	out := &entities.Patient{}
	if err := a.client.Get(ctx, fmt.Sprintf("/patients/%d/", id), out); err != nil {
		return nil, fmt.Errorf("get patient %d: %w", id, err)
	}
	return out, nil
}

// Create registers a patient. The embedded payment carries a payment_url
// when the method needs the gateway.
func (a *PatientAdapter) Create(ctx context.Context, data entities.CreatePatientData) (*entities.Patient, error) {
	out := &entities.Patient{}
	if err := a.client.Post(ctx, "/patients/", data, out); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return out, nil
}

func (a *PatientAdapter) Update(ctx context.Context, id int64, update entities.PatientUpdate) (*entities.Patient, error) {
	out := &entities.Patient{}
	if err := a.client.Patch(ctx, fmt.Sprintf("/patients/%d/", id), update, out); err != nil {
		return nil, fmt.Errorf("update patient %d: %w", id, err)
	}
	return out, nil
}

func (a *PatientAdapter) Delete(ctx context.Context, id int64) error {
	if err := a.client.Delete(ctx, fmt.Sprintf("/patients/%d/", id)); err != nil {
		return fmt.Errorf("delete patient %d: %w", id, err)
	}
	return nil
}
