package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/hms-frontdesk/internal/adapters/session"
	"github.com/zatekoja/hms-frontdesk/internal/application/services"
	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/query"
	"github.com/zatekoja/hms-frontdesk/pkg/config"
)

func TestPageAllowed(t *testing.T) {
	assert.False(t, services.PageAllowed(services.PageUsers, entities.RoleDoctor))
	assert.True(t, services.PageAllowed(services.PageUsers, entities.RoleAdmin))
	assert.True(t, services.PageAllowed(services.PageQueue, entities.RoleReceptionist))
	assert.False(t, services.PageAllowed(services.PageTreatments, entities.RoleReceptionist))
	assert.True(t, services.PageAllowed(services.PageProfile, entities.RoleDoctor))
	assert.True(t, services.PageAllowed(services.PageIndex, entities.RoleReceptionist))
	assert.Len(t, services.Pages, 10)
}

func TestRoutePreloader_PreloadForRole(t *testing.T) {
	t.Run("doctor warms its pages and ignores failures", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		auth := new(MockAuthRepository)
		auth.On("GetProfile", mock.Anything).Return(nil, errors.New("unreachable"))
		appointments := new(MockAppointmentRepository)
		appointments.On("ListToday", mock.Anything).Return(todaysAppointments(), nil)
		appointments.On("List", mock.Anything).Return(todaysAppointments(), nil)
		treatments := new(MockTreatmentRepository)
		treatments.On("List", mock.Anything).Return([]entities.Treatment{}, nil)
		users := new(MockUserRepository)
		patients := new(MockPatientRepository)
		payments := new(MockPaymentRepository)

		preloader := services.NewRoutePreloader(
			services.NewSessionService(auth, session.NewMemoryStorage(), f.queries, f.notifications),
			services.NewUserService(users, f.queries, f.invalidation, f.notifications),
			services.NewPatientService(patients, f.queries, f.invalidation, f.notifications),
			services.NewAppointmentService(appointments, f.queries, f.invalidation, f.notifications),
			services.NewTreatmentService(treatments, f.queries, f.invalidation, f.notifications),
			services.NewPaymentService(payments, f.queries, f.invalidation, f.notifications),
			services.NewFeatureFlags(config.FeatureConfig{RoutePreload: true}),
		)

		// Act
		preloader.PreloadForRole(context.Background(), entities.RoleDoctor)

		// Assert
		assert.False(t, f.stale(query.KeyAppointmentsToday))
		assert.False(t, f.stale(query.KeyAppointments))
		assert.False(t, f.stale(query.KeyTreatments))
		assert.True(t, f.stale(query.KeyProfile))
		users.AssertNotCalled(t, "List", mock.Anything)
		payments.AssertNotCalled(t, "ListToday", mock.Anything)
		appointments.AssertNumberOfCalls(t, "ListToday", 1)
	})

	t.Run("disabled flag skips preloading", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		users := new(MockUserRepository)
		preloader := services.NewRoutePreloader(
			services.NewSessionService(new(MockAuthRepository), session.NewMemoryStorage(), f.queries, f.notifications),
			services.NewUserService(users, f.queries, f.invalidation, f.notifications),
			nil, nil, nil, nil,
			services.NewFeatureFlags(config.FeatureConfig{RoutePreload: false}),
		)

		// Act
		preloader.PreloadForRole(context.Background(), entities.RoleAdmin)

		// Assert
		users.AssertNotCalled(t, "List", mock.Anything)
	})
}
