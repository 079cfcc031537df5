package entities

import (
	"strings"
	"time"
)

// Gender of a patient as stored by the backend
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Patient represents a registered patient
type Patient struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	DateOfBirth    *string   `json:"date_of_birth"`
	Gender         Gender    `json:"gender"`
	ContactNumber  string    `json:"contact_number"`
	Address        string    `json:"address"`
	AssignedDoctor *Doctor   `json:"assigned_doctor"`
	QueueNumber    int       `json:"queue_number"`
	IsSeen         bool      `json:"is_seen"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Payment is only present in the response to patient creation
	Payment *PaymentResponse `json:"payment,omitempty"`
}

// FullName joins first and last name
func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Matches reports whether the patient matches a search on name or contact number
func (p *Patient) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.FullName()), q) || strings.Contains(p.ContactNumber, q)
}

// RegisteredOn reports whether the patient was created on the calendar day of t (UTC)
func (p *Patient) RegisteredOn(t time.Time) bool {
	y1, m1, d1 := p.CreatedAt.UTC().Date()
	y2, m2, d2 := t.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DefaultRegistrationFee is the registration fee proposed by the wizard, in ETB
const DefaultRegistrationFee = 500.0

// AutoAssignDoctor lets the backend pick the doctor
const AutoAssignDoctor = "auto"

// CreatePatientData is the payload of POST /patients/
type CreatePatientData struct {
	FirstName        string        `json:"first_name"`
	LastName         string        `json:"last_name"`
	DateOfBirth      string        `json:"date_of_birth,omitempty"`
	Gender           Gender        `json:"gender"`
	ContactNumber    string        `json:"contact_number"`
	Address          string        `json:"address,omitempty"`
	AssignedDoctorID string        `json:"assigned_doctor_id,omitempty"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	Amount           float64       `json:"amount"`
}

// PatientUpdate is a partial patient update; nil fields are left untouched
type PatientUpdate struct {
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	DateOfBirth   *string `json:"date_of_birth,omitempty"`
	ContactNumber *string `json:"contact_number,omitempty"`
	Address       *string `json:"address,omitempty"`
	IsSeen        *bool   `json:"is_seen,omitempty"`
}
