package services

import (
	"context"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/repositories"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
	"github.com/zatekoja/hms-frontdesk/internal/query"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

// PatientService reads patients through the query cache and applies patient mutations
type PatientService struct {
	repo          repositories.PatientRepository
	queries       *query.Client
	invalidation  *CacheInvalidationService
	notifications *NotificationService
}

// NewPatientService creates a new patient service
func NewPatientService(
	repo repositories.PatientRepository,
	queries *query.Client,
	invalidation *CacheInvalidationService,
	notifications *NotificationService,
) *PatientService {
	return &PatientService{
		repo:          repo,
		queries:       queries,
		invalidation:  invalidation,
		notifications: notifications,
	}
}

// List returns every patient
func (s *PatientService) List(ctx context.Context) ([]entities.Patient, error) {
	patients, err := query.Fetch(ctx, s.queries, query.KeyPatients, s.repo.List)
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load patients"))
	}
	return patients, nil
}

// ListToday returns the patients registered today
func (s *PatientService) ListToday(ctx context.Context) ([]entities.Patient, error) {
	patients, err := query.Fetch(ctx, s.queries, query.KeyPatientsToday, s.repo.ListToday)
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load today's patients"))
	}
	return patients, nil
}

// Get returns one patient
func (s *PatientService) Get(ctx context.Context, id int64) (*entities.Patient, error) {
	patient, err := query.Fetch(ctx, s.queries, query.PatientKey(id), func(ctx context.Context) (*entities.Patient, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load patient"))
	}
	return patient, nil
}

// Search filters every patient by name or contact number
func (s *PatientService) Search(ctx context.Context, q string) ([]entities.Patient, error) {
	patients, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Patient, 0, len(patients))
	for i := range patients {
		if patients[i].Matches(q) {
			out = append(out, patients[i])
		}
	}
	return out, nil
}

// Queue returns today's patients not yet seen, in queue order
func (s *PatientService) Queue(ctx context.Context) ([]entities.Patient, error) {
	patients, err := s.ListToday(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Patient, 0, len(patients))
	for _, p := range patients {
		if !p.IsSeen {
			out = append(out, p)
		}
	}
	return out, nil
}

// Create registers a patient together with the registration payment.
// A cash registration is announced at once; a gateway registration is
// announced after its payment is verified.
func (s *PatientService) Create(ctx context.Context, data entities.CreatePatientData) (*entities.Patient, error) {
	patient, err := s.repo.Create(ctx, data)
	if err != nil {
		return nil, reportFailure(ctx, s.notifications, err, "Failed to register patient")
	}

	s.invalidation.AfterMutation(ctx, MutationCreatePatient, patient.ID)
	if patient.Payment != nil && patient.Payment.PaymentMethod == entities.PaymentMethodCash {
		s.notifications.Success(ctx, "Patient registered successfully")
	}
	return patient, nil
}

// Update applies a partial update to a patient
func (s *PatientService) Update(ctx context.Context, id int64, update entities.PatientUpdate) (*entities.Patient, error) {
	if (update.FirstName != nil && *update.FirstName == "") || (update.LastName != nil && *update.LastName == "") {
		s.notifications.Error(ctx, "Name fields are required")
		return nil, apperrors.NewValidationError("Name fields are required")
	}

	patient, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, reportFailure(ctx, s.notifications, err, "Failed to update patient")
	}

	s.invalidation.AfterMutation(ctx, MutationUpdatePatient, id)
	s.notifications.Success(ctx, "Patient updated successfully")
	return patient, nil
}

// Delete deletes a patient
func (s *PatientService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return reportFailure(ctx, s.notifications, err, "Failed to delete patient")
	}

	s.invalidation.AfterMutation(ctx, MutationDeletePatient, id)
	s.notifications.Success(ctx, "Patient deleted successfully")
	return nil
}
