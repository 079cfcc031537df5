package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hms-frontdesk/internal/application/services"
	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
	"github.com/zatekoja/hms-frontdesk/internal/query"
)

func TestInvalidatedKeys(t *testing.T) {
	tests := []struct {
		mutation services.Mutation
		want     []string
	}{
		{services.MutationCreatePatient, []string{"patients", "patients:today"}},
		{services.MutationDeletePatient, []string{"patients", "patients:today"}},
		{services.MutationUpdatePatient, []string{"patients", "patients:today", "patient:9"}},
		{services.MutationCreateAppointment, []string{"appointments", "appointments:today"}},
		{services.MutationDeleteAppointment, []string{"appointments", "appointments:today"}},
		{services.MutationUpdateAppointment, []string{"appointments", "appointments:today", "appointment:9"}},
		{services.MutationCreateTreatment, []string{"treatments", "treatments:today", "appointments", "appointments:today"}},
		{services.MutationVerifyPayment, []string{"payments:all", "payments:today"}},
		{services.MutationCreateUser, []string{"users", "doctors"}},
		{services.MutationUpdateUser, []string{"users", "doctors"}},
		{services.MutationDeleteUser, []string{"users", "doctors"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mutation), func(t *testing.T) {
			assert.Equal(t, tt.want, query.Strings(services.InvalidatedKeys(tt.mutation, 9)))
		})
	}
}

func TestCacheInvalidationService_AfterMutation(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	for _, key := range []query.Key{query.KeyPatients, query.KeyPatientsToday, query.KeyAppointments, query.KeyUsers} {
		require.NoError(t, f.queries.SetData(ctx, key, []int{}))
	}
	events, err := f.bus.Subscribe(ctx, providers.GetWorkspaceChannel("test"))
	require.NoError(t, err)

	// Act
	f.invalidation.AfterMutation(ctx, services.MutationCreatePatient, 0)

	// Assert
	assert.True(t, f.stale(query.KeyPatients))
	assert.True(t, f.stale(query.KeyPatientsToday))
	assert.False(t, f.stale(query.KeyAppointments))
	assert.False(t, f.stale(query.KeyUsers))

	select {
	case event := <-events:
		assert.Equal(t, entities.WorkspaceEventInvalidation, event.EventType)
		assert.Equal(t, []string{"patients", "patients:today"}, event.Keys)
	case <-time.After(time.Second):
		t.Fatal("expected an invalidation event")
	}
}
