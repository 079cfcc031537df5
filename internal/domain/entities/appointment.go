package entities

import (
	"errors"
	"time"
)

// AppointmentType distinguishes first visits from follow-ups
type AppointmentType string

const (
	AppointmentTypeInitial  AppointmentType = "initial"
	AppointmentTypeFollowUp AppointmentType = "follow_up"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a scheduled visit of a patient to a doctor
type Appointment struct {
	ID                 int64             `json:"id"`
	DisplayID          string            `json:"display_id"`
	Patient            Patient           `json:"patient"`
	Doctor             Doctor            `json:"doctor"`
	AppointmentDate    time.Time         `json:"appointment_date"`
	AppointmentType    AppointmentType   `json:"appointment_type"`
	Status             AppointmentStatus `json:"status"`
	Notes              string            `json:"notes,omitempty"`
	InitialAppointment *int64            `json:"initial_appointment"`
	Treatment          *int64            `json:"treatment"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// ErrMissingChainRoot is returned for a follow-up that does not point to its initial appointment
var ErrMissingChainRoot = errors.New("follow-up appointment has no initial appointment")

// ChainRoot returns the id of the initial appointment a follow-up of this
// appointment must point to: its own id when it is an initial visit, the
// existing root when it is itself a follow-up.
func (a *Appointment) ChainRoot() (int64, error) {
	if a.AppointmentType == AppointmentTypeFollowUp {
		if a.InitialAppointment == nil {
			return 0, ErrMissingChainRoot
		}
		return *a.InitialAppointment, nil
	}
	return a.ID, nil
}

// GroupedAppointments is the list shape returned by /appointments/ and /appointments/today/
type GroupedAppointments struct {
	Initial  []Appointment `json:"initial"`
	FollowUp []Appointment `json:"follow_up"`
}

// Flatten returns initial appointments followed by follow-ups
func (g GroupedAppointments) Flatten() []Appointment {
	out := make([]Appointment, 0, len(g.Initial)+len(g.FollowUp))
	out = append(out, g.Initial...)
	out = append(out, g.FollowUp...)
	return out
}

// CreateAppointmentData is the payload of POST /appointments/
type CreateAppointmentData struct {
	PatientID            int64           `json:"patient_id"`
	DoctorID             int64           `json:"doctor_id"`
	AppointmentDate      time.Time       `json:"appointment_date"`
	AppointmentType      AppointmentType `json:"appointment_type"`
	Notes                string          `json:"notes,omitempty"`
	InitialAppointmentID *int64          `json:"initial_appointment_id,omitempty"`
	Treatment            *int64          `json:"treatment,omitempty"`
}

// Validate checks the client-side expectations of an appointment payload
func (d CreateAppointmentData) Validate() error {
	if d.PatientID == 0 || d.DoctorID == 0 {
		return errors.New("patient and doctor are required")
	}
	switch d.AppointmentType {
	case AppointmentTypeInitial:
	case AppointmentTypeFollowUp:
		if d.InitialAppointmentID == nil {
			return ErrMissingChainRoot
		}
	default:
		return errors.New("unknown appointment type")
	}
	if d.AppointmentDate.IsZero() {
		return errors.New("appointment date is required")
	}
	return nil
}

// AppointmentUpdate is a partial appointment update; nil fields are left untouched
type AppointmentUpdate struct {
	AppointmentDate *time.Time         `json:"appointment_date,omitempty"`
	Status          *AppointmentStatus `json:"status,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	DoctorID        *int64             `json:"doctor_id,omitempty"`
}
