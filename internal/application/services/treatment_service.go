package services

import (
	"context"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/repositories"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
	"github.com/zatekoja/hms-frontdesk/internal/query"
)

// TreatmentService reads treatments through the query cache and records new ones
type TreatmentService struct {
	repo          repositories.TreatmentRepository
	queries       *query.Client
	invalidation  *CacheInvalidationService
	notifications *NotificationService
}

// NewTreatmentService creates a new treatment service
func NewTreatmentService(
	repo repositories.TreatmentRepository,
	queries *query.Client,
	invalidation *CacheInvalidationService,
	notifications *NotificationService,
) *TreatmentService {
	return &TreatmentService{
		repo:          repo,
		queries:       queries,
		invalidation:  invalidation,
		notifications: notifications,
	}
}

// List returns every treatment
func (s *TreatmentService) List(ctx context.Context) ([]entities.Treatment, error) {
	treatments, err := query.Fetch(ctx, s.queries, query.KeyTreatments, s.repo.List)
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load treatments"))
	}
	return treatments, nil
}

// ListToday returns today's treatments
func (s *TreatmentService) ListToday(ctx context.Context) ([]entities.Treatment, error) {
	treatments, err := query.Fetch(ctx, s.queries, query.KeyTreatmentsToday, s.repo.ListToday)
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load today's treatments"))
	}
	return treatments, nil
}

// Get returns one treatment, as shown by the treatment detail view
func (s *TreatmentService) Get(ctx context.Context, id int64) (*entities.Treatment, error) {
	treatment, err := query.Fetch(ctx, s.queries, query.TreatmentKey(id), func(ctx context.Context) (*entities.Treatment, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load treatment"))
	}
	return treatment, nil
}

// ForDoctor returns the doctor's treatments, restricted to one patient when patientID is non-zero
func (s *TreatmentService) ForDoctor(ctx context.Context, doctorID, patientID int64) ([]entities.Treatment, error) {
	treatments, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Treatment, 0, len(treatments))
	for _, t := range treatments {
		if t.Doctor.ID != doctorID {
			continue
		}
		if patientID != 0 && t.Patient.ID != patientID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Create records a treatment. It stales the appointment lists too since
// the backend completes the treated appointment.
func (s *TreatmentService) Create(ctx context.Context, data entities.CreateTreatmentData) (*entities.Treatment, error) {
	treatment, err := s.repo.Create(ctx, data)
	if err != nil {
		return nil, reportFailure(ctx, s.notifications, err, "Failed to record treatment")
	}

	s.invalidation.AfterMutation(ctx, MutationCreateTreatment, treatment.ID)
	s.notifications.Success(ctx, "Treatment recorded successfully")
	return treatment, nil
}
