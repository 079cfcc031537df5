package services

import (
	"context"
	"strings"
	"sync"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

// WizardStep is a state of the registration wizard
type WizardStep string

const (
	WizardStepCollectInfo    WizardStep = "collect-info"
	WizardStepCollectPayment WizardStep = "collect-payment"
	WizardStepConfirmation   WizardStep = "confirmation"
)

// PatientInfo is the first page of the registration form
type PatientInfo struct {
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	DateOfBirth   string          `json:"date_of_birth"`
	Gender        entities.Gender `json:"gender"`
	ContactNumber string          `json:"contact_number"`
	Address       string          `json:"address"`
}

// PaymentInfo is the second page of the registration form
type PaymentInfo struct {
	// AssignedDoctorID is a doctor id, "auto" or empty
	AssignedDoctorID string                 `json:"assigned_doctor_id"`
	PaymentMethod    entities.PaymentMethod `json:"payment_method"`
	Amount           float64                `json:"amount"`
}

// WizardState is the observable state of the wizard
type WizardState struct {
	Step    WizardStep        `json:"step"`
	Info    PatientInfo       `json:"info"`
	Payment PaymentInfo       `json:"payment"`
	Patient *entities.Patient `json:"patient,omitempty"`
}

// PaymentResult tells the caller what to do after a payment submission
type PaymentResult struct {
	// RedirectURL is set when the payment continues on the hosted gateway
	RedirectURL string `json:"redirect_url,omitempty"`
	Reference   string `json:"reference,omitempty"`

	State WizardState `json:"state"`
}

// RegistrationWizard collects patient details, then the registration fee,
// then confirms the queue number. One wizard runs per session.
type RegistrationWizard struct {
	patients      *PatientService
	notifications *NotificationService

	mu    sync.Mutex
	state WizardState
}

// NewRegistrationWizard creates a wizard in the collect-info step
func NewRegistrationWizard(patients *PatientService, notifications *NotificationService) *RegistrationWizard {
	return &RegistrationWizard{
		patients:      patients,
		notifications: notifications,
		state:         initialWizardState(),
	}
}

func initialWizardState() WizardState {
	return WizardState{
		Step: WizardStepCollectInfo,
		Info: PatientInfo{Gender: entities.GenderMale},
		Payment: PaymentInfo{
			PaymentMethod: entities.PaymentMethodCash,
			Amount:        entities.DefaultRegistrationFee,
		},
	}
}

// State returns the current wizard state
func (w *RegistrationWizard) State() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// SubmitInfo stores the patient details and moves to the payment step.
// Missing names or contact number keep the wizard where it is.
func (w *RegistrationWizard) SubmitInfo(ctx context.Context, info PatientInfo) (WizardState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Step != WizardStepCollectInfo {
		return w.state, apperrors.NewConflictError("Patient info was already submitted")
	}

	w.state.Info = info
	if strings.TrimSpace(info.FirstName) == "" || strings.TrimSpace(info.LastName) == "" || strings.TrimSpace(info.ContactNumber) == "" {
		w.notifications.Error(ctx, "Please fill in all required fields")
		return w.state, apperrors.NewValidationError("Please fill in all required fields")
	}
	if w.state.Info.Gender == "" {
		w.state.Info.Gender = entities.GenderMale
	}

	w.state.Step = WizardStepCollectPayment
	w.notifications.Success(ctx, "Patient info saved. Please collect payment.")
	return w.state, nil
}

// Back returns from the payment step to the details step
func (w *RegistrationWizard) Back() (WizardState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Step != WizardStepCollectPayment {
		return w.state, apperrors.NewConflictError("Nothing to go back to")
	}
	w.state.Step = WizardStepCollectInfo
	return w.state, nil
}

// SubmitPayment registers the patient with the fee. A gateway payment
// returns the hosted page URL and leaves the wizard on the payment step;
// a cash payment moves to the confirmation. A failed registration stays
// on the payment step.
func (w *RegistrationWizard) SubmitPayment(ctx context.Context, payment PaymentInfo) (*PaymentResult, error) {
	w.mu.Lock()
	if w.state.Step != WizardStepCollectPayment {
		state := w.state
		w.mu.Unlock()
		return &PaymentResult{State: state}, apperrors.NewConflictError("Patient info must be submitted first")
	}
	if payment.PaymentMethod == "" {
		payment.PaymentMethod = entities.PaymentMethodCash
	}
	if payment.Amount <= 0 {
		payment.Amount = entities.DefaultRegistrationFee
	}
	w.state.Payment = payment
	data := buildCreatePatientData(w.state.Info, payment)
	w.mu.Unlock()

	patient, err := w.patients.Create(ctx, data)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		return &PaymentResult{State: w.state}, err
	}

	if patient.Payment != nil && patient.Payment.PaymentURL != "" {
		w.notifications.Info(ctx, "Redirecting to payment gateway...")
		return &PaymentResult{
			RedirectURL: patient.Payment.PaymentURL,
			Reference:   patient.Payment.Reference,
			State:       w.state,
		}, nil
	}

	w.state.Patient = patient
	w.state.Step = WizardStepConfirmation
	return &PaymentResult{State: w.state}, nil
}

// Reset starts a new registration
func (w *RegistrationWizard) Reset() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = initialWizardState()
	return w.state
}

func buildCreatePatientData(info PatientInfo, payment PaymentInfo) entities.CreatePatientData {
	data := entities.CreatePatientData{
		FirstName:     strings.TrimSpace(info.FirstName),
		LastName:      strings.TrimSpace(info.LastName),
		DateOfBirth:   info.DateOfBirth,
		Gender:        info.Gender,
		ContactNumber: strings.TrimSpace(info.ContactNumber),
		Address:       info.Address,
		PaymentMethod: payment.PaymentMethod,
		Amount:        payment.Amount,
	}
	if doctor := strings.TrimSpace(payment.AssignedDoctorID); doctor != "" && doctor != entities.AutoAssignDoctor {
		data.AssignedDoctorID = doctor
	}
	return data
}
