package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

// FlowStatus is a state of the treatment flow
type FlowStatus string

const (
	FlowStatusIdle             FlowStatus = "idle"
	FlowStatusAwaitingFollowUp FlowStatus = "awaiting-follow-up"
	FlowStatusCompleted        FlowStatus = "completed"
	FlowStatusPartial          FlowStatus = "partial"
)

const (
	followUpHour  = 9
	followUpNotes = "Follow-up Consultation"
)

// TreatmentForm is what the doctor fills in for the current appointment
type TreatmentForm struct {
	AppointmentID    int64  `json:"appointment_id"`
	Notes            string `json:"notes"`
	Prescription     string `json:"prescription"`
	FollowUpRequired bool   `json:"follow_up_required"`
}

// FlowState is the observable state of the treatment flow
type FlowState struct {
	Status      FlowStatus            `json:"status"`
	Appointment *entities.Appointment `json:"appointment,omitempty"`
	Treatment   *entities.Treatment   `json:"treatment,omitempty"`
	FollowUp    *entities.Appointment `json:"follow_up,omitempty"`
}

// TreatmentFlow records a treatment and, when asked for, schedules the
// follow-up appointment. The two steps are separate backend writes: a
// failed follow-up keeps the recorded treatment and can be retried or skipped.
type TreatmentFlow struct {
	appointments *AppointmentService
	treatments   *TreatmentService
	currentUser  func() *entities.User
	location     *time.Location

	mu    sync.Mutex
	state FlowState
}

// NewTreatmentFlow creates an idle flow. currentUser returns the signed-in doctor.
func NewTreatmentFlow(appointments *AppointmentService, treatments *TreatmentService, currentUser func() *entities.User) *TreatmentFlow {
	return &TreatmentFlow{
		appointments: appointments,
		treatments:   treatments,
		currentUser:  currentUser,
		location:     time.Local,
		state:        FlowState{Status: FlowStatusIdle},
	}
}

// State returns the current flow state
func (f *TreatmentFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Start records the treatment of the form's appointment
func (f *TreatmentFlow) Start(ctx context.Context, form TreatmentForm) (FlowState, error) {
	f.mu.Lock()
	if f.state.Status == FlowStatusAwaitingFollowUp {
		state := f.state
		f.mu.Unlock()
		return state, apperrors.NewConflictError("A follow-up is still pending for the previous treatment")
	}
	f.mu.Unlock()

	appointment, err := f.appointments.Get(ctx, form.AppointmentID)
	if err != nil {
		return f.State(), err
	}

	treatment, err := f.treatments.Create(ctx, entities.CreateTreatmentData{
		PatientID:        appointment.Patient.ID,
		Appointment:      appointment.ID,
		Notes:            form.Notes,
		Prescription:     form.Prescription,
		FollowUpRequired: form.FollowUpRequired,
	})
	if err != nil {
		return f.State(), err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FlowState{Status: FlowStatusCompleted, Appointment: appointment, Treatment: treatment}
	if form.FollowUpRequired {
		f.state.Status = FlowStatusAwaitingFollowUp
	}
	return f.state, nil
}

// ScheduleFollowUp books the follow-up at 09:00 local time on date
// (YYYY-MM-DD). The follow-up always points to the initial appointment
// of the chain.
func (f *TreatmentFlow) ScheduleFollowUp(ctx context.Context, date string) (FlowState, error) {
	f.mu.Lock()
	state := f.state
	f.mu.Unlock()

	if state.Status != FlowStatusAwaitingFollowUp || state.Appointment == nil || state.Treatment == nil {
		return state, apperrors.NewConflictError("No treatment is waiting for a follow-up")
	}
	doctor := f.currentUser()
	if doctor == nil {
		return state, apperrors.NewUnauthorizedError("Not signed in")
	}

	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), f.location)
	if err != nil {
		return state, apperrors.NewValidationError("Please choose a valid follow-up date")
	}
	when := time.Date(day.Year(), day.Month(), day.Day(), followUpHour, 0, 0, 0, f.location)

	root, err := state.Appointment.ChainRoot()
	if err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).
			Int64("appointment_id", state.Appointment.ID).
			Msg("Follow-up appointment without initial appointment")
		return state, apperrors.NewValidationError(err.Error())
	}
	treatmentID := state.Treatment.ID

	followUp, err := f.appointments.Create(ctx, entities.CreateAppointmentData{
		PatientID:            state.Appointment.Patient.ID,
		DoctorID:             doctor.ID,
		AppointmentDate:      when,
		AppointmentType:      entities.AppointmentTypeFollowUp,
		Notes:                followUpNotes,
		InitialAppointmentID: &root,
		Treatment:            &treatmentID,
	})
	if err != nil {
		return state, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.FollowUp = followUp
	f.state.Status = FlowStatusCompleted
	return f.state, nil
}

// Skip ends a flow waiting for its follow-up without scheduling one
func (f *TreatmentFlow) Skip() (FlowState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Status != FlowStatusAwaitingFollowUp {
		return f.state, apperrors.NewConflictError("No treatment is waiting for a follow-up")
	}
	f.state.Status = FlowStatusPartial
	return f.state, nil
}

// Reset forgets the last flow
func (f *TreatmentFlow) Reset() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FlowState{Status: FlowStatusIdle}
	return f.state
}
