package services

import (
	"context"
	"strings"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/repositories"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
	"github.com/zatekoja/hms-frontdesk/internal/query"
)

// AppointmentFilter narrows an appointment list the way the appointments page tabs do
type AppointmentFilter struct {
	// Tab is one of today, all, initial, follow_up, pending, completed
	Tab    string
	Search string

	// DoctorID restricts the list to one doctor's appointments when non-zero
	DoctorID int64
}

// AppointmentService reads appointments through the query cache and applies appointment mutations
type AppointmentService struct {
	repo          repositories.AppointmentRepository
	queries       *query.Client
	invalidation  *CacheInvalidationService
	notifications *NotificationService
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	repo repositories.AppointmentRepository,
	queries *query.Client,
	invalidation *CacheInvalidationService,
	notifications *NotificationService,
) *AppointmentService {
	return &AppointmentService{
		repo:          repo,
		queries:       queries,
		invalidation:  invalidation,
		notifications: notifications,
	}
}

// List returns every appointment, initial visits first
func (s *AppointmentService) List(ctx context.Context) ([]entities.Appointment, error) {
	appointments, err := query.Fetch(ctx, s.queries, query.KeyAppointments, s.repo.List)
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load appointments"))
	}
	return appointments, nil
}

// ListToday returns today's appointments, initial visits first
func (s *AppointmentService) ListToday(ctx context.Context) ([]entities.Appointment, error) {
	appointments, err := query.Fetch(ctx, s.queries, query.KeyAppointmentsToday, s.repo.ListToday)
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load today's appointments"))
	}
	return appointments, nil
}

// Get returns one appointment
func (s *AppointmentService) Get(ctx context.Context, id int64) (*entities.Appointment, error) {
	appointment, err := query.Fetch(ctx, s.queries, query.AppointmentKey(id), func(ctx context.Context) (*entities.Appointment, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load appointment"))
	}
	return appointment, nil
}

// Filter returns the appointments matching filter. The today tab and any
// doctor-restricted view read today's list; the other tabs read every appointment.
func (s *AppointmentService) Filter(ctx context.Context, filter AppointmentFilter) ([]entities.Appointment, error) {
	var (
		appointments []entities.Appointment
		err          error
	)
	if filter.Tab == "" || filter.Tab == "today" || filter.DoctorID != 0 {
		appointments, err = s.ListToday(ctx)
	} else {
		appointments, err = s.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]entities.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if filter.DoctorID != 0 && a.Doctor.ID != filter.DoctorID {
			continue
		}
		if !matchesAppointment(&a, filter.Search) {
			continue
		}
		switch filter.Tab {
		case "initial":
			if a.AppointmentType != entities.AppointmentTypeInitial {
				continue
			}
		case "follow_up":
			if a.AppointmentType != entities.AppointmentTypeFollowUp {
				continue
			}
		case "pending":
			if a.Status != entities.AppointmentStatusPending {
				continue
			}
		case "completed":
			if a.Status != entities.AppointmentStatusCompleted {
				continue
			}
		}
		out = append(out, a)
	}
	return out, nil
}

// matchesAppointment searches the patient's names and the doctor's first name
func matchesAppointment(a *entities.Appointment, search string) bool {
	q := strings.ToLower(search)
	if q == "" {
		return true
	}
	for _, field := range []string{a.Patient.FirstName, a.Patient.LastName, a.Doctor.FirstName} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Create schedules an appointment. A follow-up without its initial
// appointment is refused before any call.
func (s *AppointmentService) Create(ctx context.Context, data entities.CreateAppointmentData) (*entities.Appointment, error) {
	appointment, err := s.repo.Create(ctx, data)
	if err != nil {
		return nil, reportFailure(ctx, s.notifications, err, "Failed to schedule appointment")
	}

	s.invalidation.AfterMutation(ctx, MutationCreateAppointment, appointment.ID)
	s.notifications.Success(ctx, "Appointment scheduled successfully")
	return appointment, nil
}

// Update applies a partial update to an appointment
func (s *AppointmentService) Update(ctx context.Context, id int64, update entities.AppointmentUpdate) (*entities.Appointment, error) {
	appointment, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, reportFailure(ctx, s.notifications, err, "Failed to update appointment")
	}

	s.invalidation.AfterMutation(ctx, MutationUpdateAppointment, id)
	s.notifications.Success(ctx, "Appointment updated successfully")
	return appointment, nil
}

// Delete deletes an appointment
func (s *AppointmentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return reportFailure(ctx, s.notifications, err, "Failed to delete appointment")
	}

	s.invalidation.AfterMutation(ctx, MutationDeleteAppointment, id)
	s.notifications.Success(ctx, "Appointment deleted successfully")
	return nil
}
