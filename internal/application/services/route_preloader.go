package services

import (
	"context"
	"sync"
	"time"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
)

// Dashboard pages, as routed under /dashboard
const (
	PageIndex           = "index"
	PageUsers           = "users"
	PagePatients        = "patients"
	PageAllAppointments = "all-appointments"
	PageRegisterPatient = "register-patient"
	PageQueue           = "queue"
	PageAppointments    = "appointments"
	PageTreatments      = "treatments"
	PagePayments        = "payments"
	PageProfile         = "profile"
)

// Pages lists every dashboard page
var Pages = []string{
	PageIndex, PageUsers, PagePatients, PageAllAppointments, PageRegisterPatient,
	PageQueue, PageAppointments, PageTreatments, PagePayments, PageProfile,
}

// pageRoles restricts pages to roles; pages absent here are open to every signed-in user
var pageRoles = map[string][]entities.Role{
	PageUsers:           {entities.RoleAdmin},
	PagePatients:        {entities.RoleAdmin, entities.RoleReceptionist},
	PageAllAppointments: {entities.RoleAdmin},
	PageRegisterPatient: {entities.RoleReceptionist},
	PageQueue:           {entities.RoleReceptionist},
	PageAppointments:    {entities.RoleDoctor, entities.RoleReceptionist},
	PageTreatments:      {entities.RoleDoctor},
	PagePayments:        {entities.RoleAdmin, entities.RoleReceptionist},
}

// PageRoles returns the roles allowed on page; nil means any signed-in user
func PageRoles(page string) []entities.Role {
	return pageRoles[page]
}

// PageAllowed reports whether role may open page
func PageAllowed(page string, role entities.Role) bool {
	roles, restricted := pageRoles[page]
	if !restricted {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

var rolePages = map[entities.Role][]string{
	entities.RoleAdmin:        {PageUsers, PagePatients, PageAllAppointments, PagePayments},
	entities.RoleDoctor:       {PageAppointments, PageTreatments},
	entities.RoleReceptionist: {PageRegisterPatient, PageQueue, PageAppointments, PagePayments},
}

// PreloadPages returns the pages warmed when role signs in
func PreloadPages(role entities.Role) []string {
	pages := []string{PageIndex, PageProfile}
	return append(pages, rolePages[role]...)
}

// RoutePreloader warms the queries behind a role's pages when a session
// becomes authenticated, so the first visit of each page reads the cache.
type RoutePreloader struct {
	session      *SessionService
	users        *UserService
	patients     *PatientService
	appointments *AppointmentService
	treatments   *TreatmentService
	payments     *PaymentService
	flags        *FeatureFlags
	timeout      time.Duration
}

// NewRoutePreloader creates a new route preloader
func NewRoutePreloader(
	session *SessionService,
	users *UserService,
	patients *PatientService,
	appointments *AppointmentService,
	treatments *TreatmentService,
	payments *PaymentService,
	flags *FeatureFlags,
) *RoutePreloader {
	return &RoutePreloader{
		session:      session,
		users:        users,
		patients:     patients,
		appointments: appointments,
		treatments:   treatments,
		payments:     payments,
		flags:        flags,
		timeout:      30 * time.Second,
	}
}

type warmFunc func(ctx context.Context) error

func (p *RoutePreloader) pageQueries(page string, role entities.Role) []warmFunc {
	switch page {
	case PageIndex:
		switch role {
		case entities.RoleAdmin:
			return []warmFunc{p.warmUsers, p.warmPatients, p.warmAppointmentsToday}
		case entities.RoleDoctor:
			return []warmFunc{p.warmAppointmentsToday, p.warmTreatments}
		case entities.RoleReceptionist:
			return []warmFunc{p.warmPatientsToday, p.warmPaymentsToday}
		}
	case PageProfile:
		return []warmFunc{p.warmProfile}
	case PageUsers:
		return []warmFunc{p.warmUsers}
	case PagePatients:
		return []warmFunc{p.warmPatients}
	case PageAllAppointments:
		return []warmFunc{p.warmAppointments, p.warmAppointmentsToday}
	case PageRegisterPatient:
		return []warmFunc{p.warmDoctors}
	case PageQueue:
		return []warmFunc{p.warmPatientsToday}
	case PageAppointments:
		return []warmFunc{p.warmAppointmentsToday, p.warmAppointments}
	case PageTreatments:
		return []warmFunc{p.warmTreatments, p.warmAppointments}
	case PagePayments:
		return []warmFunc{p.warmPaymentsToday, p.warmPaymentsAll, p.warmPatientsToday}
	}
	return nil
}

// PreloadForRole warms every query of the role's pages. Failures are
// logged and dropped; concurrent page loads share the same fetches.
func (p *RoutePreloader) PreloadForRole(ctx context.Context, role entities.Role) {
	if !p.flags.RoutePreloadEnabled() || !role.Valid() {
		return
	}
	logger := observability.LoggerFromContext(ctx)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, page := range PreloadPages(role) {
		for _, warm := range p.pageQueries(page, role) {
			wg.Add(1)
			go func(page string, warm warmFunc) {
				defer wg.Done()
				if err := warm(ctx); err != nil {
					logger.Debug().Err(err).Str("page", page).Msg("Route preload failed")
				}
			}(page, warm)
		}
	}
	wg.Wait()

	logger.Debug().
		Str("role", string(role)).
		Dur("duration", time.Since(start)).
		Msg("Route preload completed")
}

// PreloadInBackground runs PreloadForRole detached from the request
func (p *RoutePreloader) PreloadInBackground(ctx context.Context, role entities.Role) {
	go p.PreloadForRole(context.WithoutCancel(ctx), role)
}

func (p *RoutePreloader) warmProfile(ctx context.Context) error {
	_, err := p.session.Profile(ctx)
	return err
}

func (p *RoutePreloader) warmUsers(ctx context.Context) error {
	_, err := p.users.List(ctx)
	return err
}

func (p *RoutePreloader) warmDoctors(ctx context.Context) error {
	_, err := p.users.Doctors(ctx)
	return err
}

func (p *RoutePreloader) warmPatients(ctx context.Context) error {
	_, err := p.patients.List(ctx)
	return err
}

func (p *RoutePreloader) warmPatientsToday(ctx context.Context) error {
	_, err := p.patients.ListToday(ctx)
	return err
}

func (p *RoutePreloader) warmAppointments(ctx context.Context) error {
	_, err := p.appointments.List(ctx)
	return err
}

func (p *RoutePreloader) warmAppointmentsToday(ctx context.Context) error {
	_, err := p.appointments.ListToday(ctx)
	return err
}

func (p *RoutePreloader) warmTreatments(ctx context.Context) error {
	_, err := p.treatments.List(ctx)
	return err
}

func (p *RoutePreloader) warmPaymentsToday(ctx context.Context) error {
	_, err := p.payments.ListToday(ctx)
	return err
}

func (p *RoutePreloader) warmPaymentsAll(ctx context.Context) error {
	_, err := p.payments.List(ctx)
	return err
}
