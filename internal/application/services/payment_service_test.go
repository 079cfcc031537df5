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
)

func seedPayments(t *testing.T, f *fixture) {
	t.Helper()
	require.NoError(t, f.queries.SetData(context.Background(), query.KeyPaymentsAll, []entities.Payment{}))
	require.NoError(t, f.queries.SetData(context.Background(), query.KeyPaymentsToday, []entities.Payment{}))
}

func TestPaymentService_HandleCallback(t *testing.T) {
	t.Run("missing reference fails without a backend call", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		repo := new(MockPaymentRepository)
		svc := services.NewPaymentService(repo, f.queries, f.invalidation, f.notifications)

		// Act
		result := svc.HandleCallback(context.Background(), "  ")

		// Assert
		assert.Equal(t, services.PaymentOutcomeFailed, result.Outcome)
		repo.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("paid verification succeeds and stales the payment lists", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		seedPayments(t, f)
		repo := new(MockPaymentRepository)
		repo.On("Verify", mock.Anything, "tx-1").Return(&entities.PaymentVerification{Message: "Payment verified", Status: entities.PaymentStatusPaid}, nil)
		svc := services.NewPaymentService(repo, f.queries, f.invalidation, f.notifications)

		// Act
		result := svc.HandleCallback(context.Background(), "tx-1")

		// Assert
		assert.Equal(t, services.PaymentOutcomeSuccess, result.Outcome)
		assert.True(t, f.stale(query.KeyPaymentsAll))
		assert.True(t, f.stale(query.KeyPaymentsToday))
		assert.Equal(t, []string{"Payment verified successfully"}, f.messages())
	})

	t.Run("verifying twice reports the same outcome", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		repo := new(MockPaymentRepository)
		repo.On("Verify", mock.Anything, "tx-1").Return(&entities.PaymentVerification{Status: entities.PaymentStatusPaid}, nil).Twice()
		svc := services.NewPaymentService(repo, f.queries, f.invalidation, f.notifications)

		// Act
		first := svc.HandleCallback(context.Background(), "tx-1")
		second := svc.HandleCallback(context.Background(), "tx-1")

		// Assert
		assert.Equal(t, first.Outcome, second.Outcome)
		assert.Equal(t, services.PaymentOutcomeSuccess, second.Outcome)
		repo.AssertExpectations(t)
	})

	t.Run("unpaid verification fails and keeps the lists", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		seedPayments(t, f)
		repo := new(MockPaymentRepository)
		repo.On("Verify", mock.Anything, "tx-2").Return(&entities.PaymentVerification{Status: entities.PaymentStatusFailed}, nil)
		svc := services.NewPaymentService(repo, f.queries, f.invalidation, f.notifications)

		// Act
		result := svc.HandleCallback(context.Background(), "tx-2")

		// Assert
		assert.Equal(t, services.PaymentOutcomeFailed, result.Outcome)
		assert.False(t, f.stale(query.KeyPaymentsAll))
		assert.Equal(t, []string{"Payment verification failed"}, f.messages())
	})

	t.Run("backend errors end as failed", func(t *testing.T) {
		for _, err := range []error{
			errors.New("connection reset"),
			apiError(http.StatusBadRequest, `{"detail":"Transaction not found"}`),
		} {
			// Arrange
			f := newFixture(t)
			repo := new(MockPaymentRepository)
			repo.On("Verify", mock.Anything, "tx-3").Return(nil, err)
			svc := services.NewPaymentService(repo, f.queries, f.invalidation, f.notifications)

			// Act
			result := svc.HandleCallback(context.Background(), "tx-3")

			// Assert
			assert.Equal(t, services.PaymentOutcomeFailed, result.Outcome)
			assert.Len(t, f.messages(), 1)
		}
	})
}

func TestSummarizePayments(t *testing.T) {
	stats := services.SummarizePayments([]entities.Payment{
		{Amount: "500.30", Status: entities.PaymentStatusPaid},
		{Amount: "250.25", Status: entities.PaymentStatusPaid},
		{Amount: "500.00", Status: entities.PaymentStatusPending},
		{Amount: "100.00", Status: entities.PaymentStatusFailed},
	})

	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 750.55, stats.TotalCollected)
	assert.Equal(t, 500.0, stats.PendingAmount)
	assert.Equal(t, 1, stats.PendingCount)
}

func TestPaymentService_Totals(t *testing.T) {
	// Arrange
	f := newFixture(t)
	repo := new(MockPaymentRepository)
	repo.On("TotalAmount", mock.Anything).Return(12500.0, nil).Once()
	repo.On("TodayTotal", mock.Anything).Return(1500.0, nil).Once()
	svc := services.NewPaymentService(repo, f.queries, f.invalidation, f.notifications)

	// Act
	total, err1 := svc.TotalAmount(context.Background())
	today, err2 := svc.TodayTotal(context.Background())
	_, _ = svc.TodayTotal(context.Background())

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, 12500.0, total)
	assert.Equal(t, 1500.0, today)
	repo.AssertExpectations(t)
}
