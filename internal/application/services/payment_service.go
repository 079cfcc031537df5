package services

import (
	"context"
	"strings"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/repositories"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
	"github.com/zatekoja/hms-frontdesk/internal/query"
)

// PaymentOutcome is the result shown by the payment callback page
type PaymentOutcome string

const (
	PaymentOutcomeSuccess PaymentOutcome = "success"
	PaymentOutcomeFailed  PaymentOutcome = "failed"
)

// PaymentCallbackResult is the verification result of a gateway redirect
type PaymentCallbackResult struct {
	Outcome PaymentOutcome `json:"outcome"`
	TxRef   string         `json:"tx_ref,omitempty"`
	Message string         `json:"message"`
}

// PaymentStats sums a list of payments by status, rounded to cents
type PaymentStats struct {
	Count          int     `json:"count"`
	TotalCollected float64 `json:"total_collected"`
	PendingAmount  float64 `json:"pending_amount"`
	PendingCount   int     `json:"pending_count"`
}

// SummarizePayments computes collected and pending amounts of payments
func SummarizePayments(payments []entities.Payment) PaymentStats {
	stats := PaymentStats{Count: len(payments)}
	for i := range payments {
		switch payments[i].Status {
		case entities.PaymentStatusPaid:
			stats.TotalCollected += payments[i].AmountValue()
		case entities.PaymentStatusPending:
			stats.PendingAmount += payments[i].AmountValue()
			stats.PendingCount++
		}
	}
	stats.TotalCollected = roundCents(stats.TotalCollected)
	stats.PendingAmount = roundCents(stats.PendingAmount)
	return stats
}

// PaymentService reads payments through the query cache and verifies gateway payments
type PaymentService struct {
	repo          repositories.PaymentRepository
	queries       *query.Client
	invalidation  *CacheInvalidationService
	notifications *NotificationService
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	repo repositories.PaymentRepository,
	queries *query.Client,
	invalidation *CacheInvalidationService,
	notifications *NotificationService,
) *PaymentService {
	return &PaymentService{
		repo:          repo,
		queries:       queries,
		invalidation:  invalidation,
		notifications: notifications,
	}
}

// List returns every payment
func (s *PaymentService) List(ctx context.Context) ([]entities.Payment, error) {
	payments, err := query.Fetch(ctx, s.queries, query.KeyPaymentsAll, s.repo.List)
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load payments"))
	}
	return payments, nil
}

// ListToday returns today's payments
func (s *PaymentService) ListToday(ctx context.Context) ([]entities.Payment, error) {
	payments, err := query.Fetch(ctx, s.queries, query.KeyPaymentsToday, s.repo.ListToday)
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load today's payments"))
	}
	return payments, nil
}

// Get returns one payment
func (s *PaymentService) Get(ctx context.Context, id int64) (*entities.Payment, error) {
	payment, err := query.Fetch(ctx, s.queries, query.PaymentKey(id), func(ctx context.Context) (*entities.Payment, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, failure(err, hmsapi.MessageFrom(err, "Failed to load payment"))
	}
	return payment, nil
}

// TotalAmount returns the amount collected over all time
func (s *PaymentService) TotalAmount(ctx context.Context) (float64, error) {
	total, err := query.Fetch(ctx, s.queries, query.KeyPaymentsTotal, s.repo.TotalAmount)
	if err != nil {
		return 0, failure(err, hmsapi.MessageFrom(err, "Failed to load total amount"))
	}
	return total, nil
}

// TodayTotal returns the amount collected today
func (s *PaymentService) TodayTotal(ctx context.Context) (float64, error) {
	total, err := query.Fetch(ctx, s.queries, query.KeyPaymentsTodayTotal, s.repo.TodayTotal)
	if err != nil {
		return 0, failure(err, hmsapi.MessageFrom(err, "Failed to load today's total"))
	}
	return total, nil
}

// Verify asks the backend to verify a gateway payment. Only a paid
// verification stales the payment lists.
func (s *PaymentService) Verify(ctx context.Context, txRef string) (*entities.PaymentVerification, error) {
	verification, err := s.repo.Verify(ctx, txRef)
	if err != nil {
		return nil, reportFailure(ctx, s.notifications, err, "Failed to verify payment")
	}

	if verification.Status == entities.PaymentStatusPaid {
		s.invalidation.AfterMutation(ctx, MutationVerifyPayment, 0)
		s.notifications.Success(ctx, "Payment verified successfully")
	} else {
		s.notifications.Error(ctx, "Payment verification failed")
	}
	return verification, nil
}

// HandleCallback resolves the gateway redirect. It never fails: a missing
// reference and every verification error end as a failed outcome.
func (s *PaymentService) HandleCallback(ctx context.Context, txRef string) PaymentCallbackResult {
	txRef = strings.TrimSpace(txRef)
	if txRef == "" {
		return PaymentCallbackResult{Outcome: PaymentOutcomeFailed, Message: "Missing transaction reference"}
	}

	verification, err := s.Verify(ctx, txRef)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("tx_ref", txRef).Msg("Payment verification error")
		return PaymentCallbackResult{
			Outcome: PaymentOutcomeFailed,
			TxRef:   txRef,
			Message: "We couldn't verify your payment. The transaction may have been cancelled or failed.",
		}
	}
	if verification.Status != entities.PaymentStatusPaid {
		return PaymentCallbackResult{
			Outcome: PaymentOutcomeFailed,
			TxRef:   txRef,
			Message: "We couldn't verify your payment. The transaction may have been cancelled or failed.",
		}
	}
	return PaymentCallbackResult{Outcome: PaymentOutcomeSuccess, TxRef: txRef, Message: verification.Message}
}

// TodayStats summarizes today's payments
func (s *PaymentService) TodayStats(ctx context.Context) (PaymentStats, error) {
	payments, err := s.ListToday(ctx)
	if err != nil {
		return PaymentStats{}, err
	}
	return SummarizePayments(payments), nil
}
