package services

import (
	"context"
	"math"
	"time"

	"github.com/zatekoja/hms-frontdesk/internal/application/loaders"
	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

const (
	dashboardListSize       = 5
	doctorRecentTreatments  = 4
	DashboardVariantUnknown = "unknown"
)

// AdminDashboard is the overview of staff, patients and today's appointments
type AdminDashboard struct {
	TotalUsers        int                    `json:"total_users"`
	Doctors           int                    `json:"doctors"`
	Receptionists     int                    `json:"receptionists"`
	TodayPatients     int                    `json:"today_patients"`
	TotalPatients     int                    `json:"total_patients"`
	RecentPatients    []entities.Patient     `json:"recent_patients"`
	RecentUsers       []entities.User        `json:"recent_users"`
	TodayAppointments []entities.Appointment `json:"today_appointments"`
	AppointmentsToday int                    `json:"appointments_today"`
}

// DoctorDashboard is a doctor's view of today's work
type DoctorDashboard struct {
	TodayAppointments   int                    `json:"today_appointments"`
	PendingCount        int                    `json:"pending_count"`
	CompletedToday      int                    `json:"completed_today"`
	UniquePatients      int                    `json:"unique_patients"`
	PendingAppointments []entities.Appointment `json:"pending_appointments"`
	RecentTreatments    []entities.Treatment   `json:"recent_treatments"`
}

// PaymentRow is a payment together with the name of its patient
type PaymentRow struct {
	entities.Payment
	PatientName string `json:"patient_name"`
}

// ReceptionistDashboard is the front desk's view of today's registrations
type ReceptionistDashboard struct {
	TodayRegistrations int                `json:"today_registrations"`
	QueueLength        int                `json:"queue_length"`
	PendingPayments    int                `json:"pending_payments"`
	TodayRevenue       float64            `json:"today_revenue"`
	Queue              []entities.Patient `json:"queue"`
	RecentPayments     []PaymentRow       `json:"recent_payments"`
}

// Dashboard is the index page of a signed-in user; exactly one variant is set
type Dashboard struct {
	Variant      string                 `json:"variant"`
	Message      string                 `json:"message,omitempty"`
	Admin        *AdminDashboard        `json:"admin,omitempty"`
	Doctor       *DoctorDashboard       `json:"doctor,omitempty"`
	Receptionist *ReceptionistDashboard `json:"receptionist,omitempty"`
}

// DashboardService renders the role dashboards from cached queries
type DashboardService struct {
	users        *UserService
	patients     *PatientService
	appointments *AppointmentService
	treatments   *TreatmentService
	payments     *PaymentService
	now          func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	users *UserService,
	patients *PatientService,
	appointments *AppointmentService,
	treatments *TreatmentService,
	payments *PaymentService,
) *DashboardService {
	return &DashboardService{
		users:        users,
		patients:     patients,
		appointments: appointments,
		treatments:   treatments,
		payments:     payments,
		now:          time.Now,
	}
}

// Render builds the dashboard variant of user's role
func (s *DashboardService) Render(ctx context.Context, user *entities.User) (*Dashboard, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorizedError("Not signed in")
	}

	switch user.Role {
	case entities.RoleAdmin:
		admin, err := s.Admin(ctx)
		if err != nil {
			return nil, err
		}
		return &Dashboard{Variant: string(entities.RoleAdmin), Admin: admin}, nil
	case entities.RoleDoctor:
		doctor, err := s.Doctor(ctx, user)
		if err != nil {
			return nil, err
		}
		return &Dashboard{Variant: string(entities.RoleDoctor), Doctor: doctor}, nil
	case entities.RoleReceptionist:
		receptionist, err := s.Receptionist(ctx)
		if err != nil {
			return nil, err
		}
		return &Dashboard{Variant: string(entities.RoleReceptionist), Receptionist: receptionist}, nil
	}
	return &Dashboard{Variant: DashboardVariantUnknown, Message: "Unknown role"}, nil
}

// Admin builds the admin dashboard
func (s *DashboardService) Admin(ctx context.Context) (*AdminDashboard, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}
	appointments, err := s.appointments.ListToday(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	todayPatients := 0
	for i := range patients {
		if patients[i].RegisteredOn(now) {
			todayPatients++
		}
	}

	return &AdminDashboard{
		TotalUsers:        len(users),
		Doctors:           len(FilterByRole(users, entities.RoleDoctor)),
		Receptionists:     len(FilterByRole(users, entities.RoleReceptionist)),
		TodayPatients:     todayPatients,
		TotalPatients:     len(patients),
		RecentPatients:    head(patients, dashboardListSize),
		RecentUsers:       head(users, dashboardListSize),
		TodayAppointments: head(appointments, dashboardListSize),
		AppointmentsToday: len(appointments),
	}, nil
}

// Doctor builds the dashboard of doctor
func (s *DashboardService) Doctor(ctx context.Context, doctor *entities.User) (*DoctorDashboard, error) {
	appointments, err := s.appointments.ListToday(ctx)
	if err != nil {
		return nil, err
	}
	treatments, err := s.treatments.List(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := &DoctorDashboard{PendingAppointments: []entities.Appointment{}}
	for _, a := range appointments {
		if a.Doctor.ID != doctor.ID {
			continue
		}
		dashboard.TodayAppointments++
		switch a.Status {
		case entities.AppointmentStatusPending:
			dashboard.PendingAppointments = append(dashboard.PendingAppointments, a)
		case entities.AppointmentStatusCompleted:
			dashboard.CompletedToday++
		}
	}
	dashboard.PendingCount = len(dashboard.PendingAppointments)

	patients := make(map[int64]struct{})
	for _, t := range treatments {
		if t.Doctor.ID == doctor.ID {
			patients[t.Patient.ID] = struct{}{}
		}
	}
	dashboard.UniquePatients = len(patients)
	dashboard.RecentTreatments = head(treatments, doctorRecentTreatments)
	return dashboard, nil
}

// Receptionist builds the receptionist dashboard
func (s *DashboardService) Receptionist(ctx context.Context) (*ReceptionistDashboard, error) {
	patients, err := s.patients.ListToday(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListToday(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := &ReceptionistDashboard{
		TodayRegistrations: len(patients),
		Queue:              []entities.Patient{},
	}
	for _, p := range patients {
		if !p.IsSeen {
			dashboard.Queue = append(dashboard.Queue, p)
		}
	}
	dashboard.QueueLength = len(dashboard.Queue)
	dashboard.Queue = head(dashboard.Queue, dashboardListSize)

	stats := SummarizePayments(payments)
	dashboard.PendingPayments = stats.PendingCount
	dashboard.TodayRevenue = stats.TotalCollected
	dashboard.RecentPayments = s.PaymentRows(ctx, head(payments, dashboardListSize))
	return dashboard, nil
}

// PaymentRows attaches patient names to payments, batching the lookups of
// one response through the request's patient loader
func (s *DashboardService) PaymentRows(ctx context.Context, payments []entities.Payment) []PaymentRow {
	l := loaders.For(ctx)
	if l == nil {
		l = loaders.NewLoaders(s.patients)
	}

	ids := make([]int64, 0, len(payments))
	for _, p := range payments {
		ids = append(ids, p.Patient)
	}
	names := l.PatientNames(ctx, ids)

	rows := make([]PaymentRow, len(payments))
	for i, p := range payments {
		rows[i] = PaymentRow{Payment: p, PatientName: names[p.Patient]}
	}
	return rows
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
