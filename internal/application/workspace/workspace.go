package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zatekoja/hms-frontdesk/internal/application/services"
	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
	"github.com/zatekoja/hms-frontdesk/internal/domain/repositories"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
	"github.com/zatekoja/hms-frontdesk/internal/query"
)

// Repositories are the backend operations of one session
type Repositories struct {
	Auth         repositories.AuthRepository
	Users        repositories.UserRepository
	Patients     repositories.PatientRepository
	Appointments repositories.AppointmentRepository
	Treatments   repositories.TreatmentRepository
	Payments     repositories.PaymentRepository
}

// RepositoryFactory builds the repositories of a session authenticating with token
type RepositoryFactory func(token func(ctx context.Context) (string, error)) Repositories

// StorageFactory returns the persisted key-value storage of a session
type StorageFactory func(sessionID string) providers.SessionStorage

// Workspace is everything one browser session or CLI profile owns: its
// auth store, its query key space and the services reading through it.
type Workspace struct {
	ID string

	Session       *services.SessionService
	Queries       *query.Client
	Notifications *services.NotificationService
	Invalidation  *services.CacheInvalidationService

	Users        *services.UserService
	Patients     *services.PatientService
	Appointments *services.AppointmentService
	Treatments   *services.TreatmentService
	Payments     *services.PaymentService
	Dashboard    *services.DashboardService
	Preloader    *services.RoutePreloader

	Wizard        *services.RegistrationWizard
	TreatmentFlow *services.TreatmentFlow

	initMu      sync.Mutex
	initialized bool

	mu           sync.Mutex
	lastSeen     time.Time
	preloadedFor int64
}

// Options are shared by every workspace of a registry
type Options struct {
	Cache        providers.CacheProvider
	Bus          providers.EventBus
	Storage      StorageFactory
	Repositories RepositoryFactory
	Policy       query.Policy
	Flags        *services.FeatureFlags
	Metrics      *observability.Metrics
}

// Namespace is the query-cache prefix of a session
func Namespace(sessionID string) string {
	return fmt.Sprintf("hms:q:%s:", sessionID)
}

// New wires a workspace for sessionID
func New(sessionID string, opts Options) *Workspace {
	ws := &Workspace{ID: sessionID, lastSeen: time.Now()}

	store := query.NewStore(opts.Cache, Namespace(sessionID), opts.Policy.GCTime)
	clientOpts := []query.ClientOption{query.WithMetrics(opts.Metrics)}
	if opts.Bus != nil {
		clientOpts = append(clientOpts, query.WithEventBus(opts.Bus, sessionID))
	}
	ws.Queries = query.NewClient(store, opts.Policy, clientOpts...)
	ws.Notifications = services.NewNotificationService(opts.Bus, sessionID)
	ws.Invalidation = services.NewCacheInvalidationService(ws.Queries)

	storage := opts.Storage(sessionID)
	var session *services.SessionService
	repos := opts.Repositories(func(ctx context.Context) (string, error) {
		return session.Token(ctx)
	})
	session = services.NewSessionService(repos.Auth, storage, ws.Queries, ws.Notifications)
	ws.Session = session

	ws.Users = services.NewUserService(repos.Users, ws.Queries, ws.Invalidation, ws.Notifications)
	ws.Patients = services.NewPatientService(repos.Patients, ws.Queries, ws.Invalidation, ws.Notifications)
	ws.Appointments = services.NewAppointmentService(repos.Appointments, ws.Queries, ws.Invalidation, ws.Notifications)
	ws.Treatments = services.NewTreatmentService(repos.Treatments, ws.Queries, ws.Invalidation, ws.Notifications)
	ws.Payments = services.NewPaymentService(repos.Payments, ws.Queries, ws.Invalidation, ws.Notifications)
	ws.Dashboard = services.NewDashboardService(ws.Users, ws.Patients, ws.Appointments, ws.Treatments, ws.Payments)
	ws.Preloader = services.NewRoutePreloader(ws.Session, ws.Users, ws.Patients, ws.Appointments, ws.Treatments, ws.Payments, opts.Flags)

	ws.Wizard = services.NewRegistrationWizard(ws.Patients, ws.Notifications)
	ws.TreatmentFlow = services.NewTreatmentFlow(ws.Appointments, ws.Treatments, ws.Session.CurrentUser)
	ws.Session.OnUserChange(ws.SignedOut)
	return ws
}

// Init restores the persisted session. Once it has succeeded later calls are
// no-ops; a failed restore is retried by the next call.
func (w *Workspace) Init(ctx context.Context) error {
	w.initMu.Lock()
	defer w.initMu.Unlock()
	if w.initialized {
		return nil
	}
	if err := w.Session.Init(ctx); err != nil {
		return err
	}
	w.initialized = true
	return nil
}

// Touch records activity on the workspace
func (w *Workspace) Touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Authenticated runs the hooks of entering the authenticated state: the
// first time user is seen signed in, the role's pages are preloaded.
func (w *Workspace) Authenticated(ctx context.Context, user *entities.User) {
	if user == nil {
		return
	}
	w.mu.Lock()
	first := w.preloadedFor != user.ID
	w.preloadedFor = user.ID
	w.mu.Unlock()

	if first {
		w.Preloader.PreloadInBackground(ctx, user.Role)
	}
}

// SignedOut resets the per-login state of the workspace
func (w *Workspace) SignedOut() {
	w.mu.Lock()
	w.preloadedFor = 0
	w.mu.Unlock()
	w.Wizard.Reset()
	w.TreatmentFlow.Reset()
}

type ctxKey struct{}

// WithContext attaches ws to ctx
func WithContext(ctx context.Context, ws *Workspace) context.Context {
	return context.WithValue(ctx, ctxKey{}, ws)
}

// FromContext returns the workspace of the request, or nil
func FromContext(ctx context.Context) *Workspace {
	ws, _ := ctx.Value(ctxKey{}).(*Workspace)
	return ws
}
