package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hms-frontdesk/internal/application/services"
	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/query"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

func TestPatientService_List(t *testing.T) {
	t.Run("serves a fresh list without calling the backend again", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		repo := new(MockPatientRepository)
		repo.On("List", mock.Anything).Return([]entities.Patient{{ID: 1, FirstName: "Abebe"}}, nil).Once()
		svc := services.NewPatientService(repo, f.queries, f.invalidation, f.notifications)

		// Act
		first, err1 := svc.List(context.Background())
		second, err2 := svc.List(context.Background())

		// Assert
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, first, second)
		repo.AssertNumberOfCalls(t, "List", 1)
	})

	t.Run("refetches after a registration", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		repo := new(MockPatientRepository)
		repo.On("List", mock.Anything).Return([]entities.Patient{{ID: 1}}, nil).Once()
		repo.On("List", mock.Anything).Return([]entities.Patient{{ID: 1}, {ID: 2}}, nil).Once()
		repo.On("Create", mock.Anything, mock.Anything).Return(&entities.Patient{
			ID:      2,
			Payment: &entities.PaymentResponse{PaymentMethod: entities.PaymentMethodCash, Status: entities.PaymentStatusPaid},
		}, nil)
		svc := services.NewPatientService(repo, f.queries, f.invalidation, f.notifications)
		_, err := svc.List(context.Background())
		require.NoError(t, err)

		// Act
		_, err = svc.Create(context.Background(), entities.CreatePatientData{FirstName: "Almaz"})
		require.NoError(t, err)
		patients, err := svc.List(context.Background())

		// Assert
		require.NoError(t, err)
		assert.Len(t, patients, 2)
		repo.AssertNumberOfCalls(t, "List", 2)
	})
}

func TestPatientService_Create(t *testing.T) {
	t.Run("cash registration is announced", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		repo := new(MockPatientRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(&entities.Patient{
			ID:      5,
			Payment: &entities.PaymentResponse{PaymentMethod: entities.PaymentMethodCash},
		}, nil)
		svc := services.NewPatientService(repo, f.queries, f.invalidation, f.notifications)

		// Act
		_, err := svc.Create(context.Background(), entities.CreatePatientData{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"Patient registered successfully"}, f.messages())
	})

	t.Run("gateway registration waits for verification", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		repo := new(MockPatientRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(&entities.Patient{
			ID:      5,
			Payment: &entities.PaymentResponse{PaymentMethod: entities.PaymentMethodChapa, PaymentURL: "https://checkout.example/tx"},
		}, nil)
		svc := services.NewPatientService(repo, f.queries, f.invalidation, f.notifications)

		// Act
		_, err := svc.Create(context.Background(), entities.CreatePatientData{})

		// Assert
		require.NoError(t, err)
		assert.Empty(t, f.messages())
	})

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"detail", apiError(http.StatusBadRequest, `{"detail":"Doctor is not available"}`), "Doctor is not available"},
		{"field errors", apiError(http.StatusBadRequest, `{"contact_number":["This field is required."]}`), "contact_number: This field is required."},
		{"fallback", errors.New("timeout"), "Failed to register patient"},
	}
	for _, tt := range tests {
		t.Run("failure shows "+tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)
			repo := new(MockPatientRepository)
			repo.On("Create", mock.Anything, mock.Anything).Return(nil, tt.err)
			svc := services.NewPatientService(repo, f.queries, f.invalidation, f.notifications)
			require.NoError(t, f.queries.SetData(context.Background(), query.KeyPatients, []entities.Patient{}))

			// Act
			_, err := svc.Create(context.Background(), entities.CreatePatientData{})

			// Assert
			assert.Error(t, err)
			assert.Equal(t, []string{tt.want}, f.messages())
			assert.False(t, f.stale(query.KeyPatients), "a failed mutation must not invalidate")
		})
	}
}

func TestPatientService_Update(t *testing.T) {
	t.Run("empty name is refused", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		repo := new(MockPatientRepository)
		svc := services.NewPatientService(repo, f.queries, f.invalidation, f.notifications)
		empty := ""

		// Act
		_, err := svc.Update(context.Background(), 4, entities.PatientUpdate{FirstName: &empty})

		// Assert
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stales the lists and the detail", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		ctx := context.Background()
		seen := true
		update := entities.PatientUpdate{IsSeen: &seen}
		repo := new(MockPatientRepository)
		repo.On("Update", mock.Anything, int64(4), update).Return(&entities.Patient{ID: 4, IsSeen: true}, nil)
		svc := services.NewPatientService(repo, f.queries, f.invalidation, f.notifications)
		for _, key := range []query.Key{query.KeyPatients, query.KeyPatientsToday, query.PatientKey(4)} {
			require.NoError(t, f.queries.SetData(ctx, key, struct{}{}))
		}

		// Act
		_, err := svc.Update(ctx, 4, update)

		// Assert
		require.NoError(t, err)
		assert.True(t, f.stale(query.KeyPatients))
		assert.True(t, f.stale(query.KeyPatientsToday))
		assert.True(t, f.stale(query.PatientKey(4)))
	})
}

func TestPatientService_SearchAndQueue(t *testing.T) {
	// Arrange
	f := newFixture(t)
	repo := new(MockPatientRepository)
	repo.On("List", mock.Anything).Return([]entities.Patient{
		{ID: 1, FirstName: "Abebe", LastName: "Kebede", ContactNumber: "0911000000"},
		{ID: 2, FirstName: "Almaz", LastName: "Tadesse", ContactNumber: "0922000000"},
	}, nil)
	repo.On("ListToday", mock.Anything).Return([]entities.Patient{
		{ID: 1, QueueNumber: 1, IsSeen: true},
		{ID: 2, QueueNumber: 2},
		{ID: 3, QueueNumber: 3},
	}, nil)
	svc := services.NewPatientService(repo, f.queries, f.invalidation, f.notifications)

	// Act
	byName, err1 := svc.Search(context.Background(), "almaz t")
	byPhone, err2 := svc.Search(context.Background(), "0911")
	queue, err3 := svc.Queue(context.Background())

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.NoError(t, err3)
	require.Len(t, byName, 1)
	assert.Equal(t, int64(2), byName[0].ID)
	require.Len(t, byPhone, 1)
	assert.Equal(t, int64(1), byPhone[0].ID)
	require.Len(t, queue, 2)
	assert.Equal(t, 2, queue[0].QueueNumber)
}

func TestPatientService_Delete(t *testing.T) {
	// Arrange
	f := newFixture(t)
	repo := new(MockPatientRepository)
	repo.On("Delete", mock.Anything, int64(8)).Return(nil)
	svc := services.NewPatientService(repo, f.queries, f.invalidation, f.notifications)
	require.NoError(t, f.queries.SetData(context.Background(), query.KeyPatientsToday, []entities.Patient{}))

	// Act
	err := svc.Delete(context.Background(), 8)

	// Assert
	require.NoError(t, err)
	assert.True(t, f.stale(query.KeyPatientsToday))
	assert.Equal(t, []string{"Patient deleted successfully"}, f.messages())
}
