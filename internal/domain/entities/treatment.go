package entities

import "time"

// Treatment records what a doctor did during an appointment
type Treatment struct {
	ID               int64     `json:"id"`
	Patient          Patient   `json:"patient"`
	Doctor           Doctor    `json:"doctor"`
	Appointment      int64     `json:"appointment"`
	Notes            string    `json:"notes"`
	Prescription     *string   `json:"prescription"`
	FollowUpRequired bool      `json:"follow_up_required"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateTreatmentData is the payload of POST /treatments/
type CreateTreatmentData struct {
	PatientID        int64  `json:"patient_id"`
	Appointment      int64  `json:"appointment"`
	Notes            string `json:"notes"`
	Prescription     string `json:"prescription,omitempty"`
	FollowUpRequired bool   `json:"follow_up_required"`
}
