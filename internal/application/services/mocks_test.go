package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/hms-frontdesk/internal/adapters/cache"
	"github.com/zatekoja/hms-frontdesk/internal/adapters/events"
	"github.com/zatekoja/hms-frontdesk/internal/application/services"
	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
	"github.com/zatekoja/hms-frontdesk/internal/query"
)

// Mocks

type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) Login(ctx context.Context, username, password string) (*entities.LoginResponse, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LoginResponse), args.Error(1)
}

func (m *MockAuthRepository) GetProfile(ctx context.Context) (*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockAuthRepository) UpdateProfile(ctx context.Context, update entities.ProfileUpdate) (*entities.User, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockAuthRepository) ChangePassword(ctx context.Context, data entities.ChangePasswordData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) List(ctx context.Context) ([]entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, data entities.CreateUserData) (*entities.User, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id int64, update entities.UserUpdate) (*entities.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) List(ctx context.Context) ([]entities.Patient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Patient), args.Error(1)
}

func (m *MockPatientRepository) ListToday(ctx context.Context) ([]entities.Patient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Patient), args.Error(1)
}

func (m *MockPatientRepository) GetByID(ctx context.Context, id int64) (*entities.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockPatientRepository) Create(ctx context.Context, data entities.CreatePatientData) (*entities.Patient, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockPatientRepository) Update(ctx context.Context, id int64, update entities.PatientUpdate) (*entities.Patient, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockPatientRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) List(ctx context.Context) ([]entities.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListToday(ctx context.Context) ([]entities.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id int64) (*entities.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Create(ctx context.Context, data entities.CreateAppointmentData) (*entities.Appointment, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, id int64, update entities.AppointmentUpdate) (*entities.Appointment, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTreatmentRepository struct {
	mock.Mock
}

func (m *MockTreatmentRepository) List(ctx context.Context) ([]entities.Treatment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Treatment), args.Error(1)
}

func (m *MockTreatmentRepository) ListToday(ctx context.Context) ([]entities.Treatment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Treatment), args.Error(1)
}

func (m *MockTreatmentRepository) GetByID(ctx context.Context, id int64) (*entities.Treatment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Treatment), args.Error(1)
}

func (m *MockTreatmentRepository) Create(ctx context.Context, data entities.CreateTreatmentData) (*entities.Treatment, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Treatment), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) List(ctx context.Context) ([]entities.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListToday(ctx context.Context) ([]entities.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id int64) (*entities.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Verify(ctx context.Context, txRef string) (*entities.PaymentVerification, error) {
	args := m.Called(ctx, txRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentVerification), args.Error(1)
}

func (m *MockPaymentRepository) TotalAmount(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockPaymentRepository) TodayTotal(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

// Fixtures

type fixture struct {
	queries       *query.Client
	bus           *events.MemoryEventBus
	notifications *services.NotificationService
	invalidation  *services.CacheInvalidationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	policy := query.DefaultPolicy()
	policy.Retries = 0

	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { _ = bus.Close() })

	queries := query.NewClient(
		query.NewStore(cache.NewMemoryAdapter(), "hms:q:test:", time.Minute),
		policy,
		query.WithEventBus(bus, "test"),
	)
	return &fixture{
		queries:       queries,
		bus:           bus,
		notifications: services.NewNotificationService(bus, "test"),
		invalidation:  services.NewCacheInvalidationService(queries),
	}
}

// stale reports whether key would be refetched by the next read
func (f *fixture) stale(key query.Key) bool {
	entry, ok := f.queries.Peek(context.Background(), key)
	return !ok || !entry.Fresh(time.Now())
}

func (f *fixture) messages() []string {
	var out []string
	for _, event := range f.notifications.Drain() {
		out = append(out, event.Message)
	}
	return out
}

func apiError(status int, body string) *hmsapi.APIError {
	return hmsapi.NewAPIError(http.MethodPost, "/test/", status, []byte(body))
}
