package services

import (
	"context"

	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
	"github.com/zatekoja/hms-frontdesk/internal/query"
)

// Mutation names a kind of write against the backend
type Mutation string

const (
	MutationCreatePatient     Mutation = "create_patient"
	MutationUpdatePatient     Mutation = "update_patient"
	MutationDeletePatient     Mutation = "delete_patient"
	MutationCreateAppointment Mutation = "create_appointment"
	MutationUpdateAppointment Mutation = "update_appointment"
	MutationDeleteAppointment Mutation = "delete_appointment"
	MutationCreateTreatment   Mutation = "create_treatment"
	MutationVerifyPayment     Mutation = "verify_payment"
	MutationCreateUser        Mutation = "create_user"
	MutationUpdateUser        Mutation = "update_user"
	MutationDeleteUser        Mutation = "delete_user"
)

// InvalidatedKeys returns the query keys a successful mutation makes stale.
// id is the affected record, used by mutations that also stale a detail key.
func InvalidatedKeys(m Mutation, id int64) []query.Key {
	switch m {
	case MutationCreatePatient, MutationDeletePatient:
		return []query.Key{query.KeyPatients, query.KeyPatientsToday}
	case MutationUpdatePatient:
		return []query.Key{query.KeyPatients, query.KeyPatientsToday, query.PatientKey(id)}
	case MutationCreateAppointment, MutationDeleteAppointment:
		return []query.Key{query.KeyAppointments, query.KeyAppointmentsToday}
	case MutationUpdateAppointment:
		return []query.Key{query.KeyAppointments, query.KeyAppointmentsToday, query.AppointmentKey(id)}
	case MutationCreateTreatment:
		return []query.Key{query.KeyTreatments, query.KeyTreatmentsToday, query.KeyAppointments, query.KeyAppointmentsToday}
	case MutationVerifyPayment:
		return []query.Key{query.KeyPaymentsAll, query.KeyPaymentsToday}
	case MutationCreateUser, MutationUpdateUser, MutationDeleteUser:
		// the doctors list is derived from users
		return []query.Key{query.KeyUsers, query.KeyDoctors}
	}
	return nil
}

// CacheInvalidationService applies the invalidation graph after mutations
type CacheInvalidationService struct {
	client *query.Client
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(client *query.Client) *CacheInvalidationService {
	return &CacheInvalidationService{client: client}
}

// AfterMutation invalidates every key the mutation affects
func (s *CacheInvalidationService) AfterMutation(ctx context.Context, m Mutation, id int64) {
	keys := InvalidatedKeys(m, id)
	if len(keys) == 0 {
		return
	}
	s.client.Invalidate(ctx, keys...)
	observability.LoggerFromContext(ctx).Debug().
		Str("mutation", string(m)).
		Strs("keys", query.Strings(keys)).
		Msg("Invalidated queries")
}

// Reset drops every cached query, as on logout
func (s *CacheInvalidationService) Reset(ctx context.Context) error {
	return s.client.Clear(ctx)
}
