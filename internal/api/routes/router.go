package routes

import (
	"net/http"

	"github.com/zatekoja/hms-frontdesk/internal/api/handlers"
	"github.com/zatekoja/hms-frontdesk/internal/api/middleware"
	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
)

const streamPath = "/api/stream"

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	authHandler         *handlers.AuthHandler
	dashboardHandler    *handlers.DashboardHandler
	patientHandler      *handlers.PatientHandler
	appointmentHandler  *handlers.AppointmentHandler
	userHandler         *handlers.UserHandler
	registrationHandler *handlers.RegistrationHandler
	treatmentHandler    *handlers.TreatmentHandler
	paymentHandler      *handlers.PaymentHandler
	sseHandler          *handlers.SSEHandler

	sessions       middleware.WorkspaceSource
	cookie         middleware.CookieConfig
	allowedOrigins []string
	metrics        *observability.Metrics
	prometheus     *observability.Collector
}

// Options configure the router
type Options struct {
	Sessions       middleware.WorkspaceSource
	Bus            providers.EventBus
	Cookie         middleware.CookieConfig
	AllowedOrigins []string
	Metrics        *observability.Metrics

	// Prometheus, when set, serves GET /metrics
	Prometheus *observability.Collector
}

// NewRouter creates a new router
func NewRouter(opts Options) *Router {
	return &Router{
		mux: http.NewServeMux(),

		authHandler:         handlers.NewAuthHandler(),
		dashboardHandler:    handlers.NewDashboardHandler(),
		patientHandler:      handlers.NewPatientHandler(),
		appointmentHandler:  handlers.NewAppointmentHandler(),
		userHandler:         handlers.NewUserHandler(),
		registrationHandler: handlers.NewRegistrationHandler(),
		treatmentHandler:    handlers.NewTreatmentHandler(),
		paymentHandler:      handlers.NewPaymentHandler(),
		sseHandler:          handlers.NewSSEHandler(opts.Bus),

		sessions:       opts.Sessions,
		cookie:         opts.Cookie,
		allowedOrigins: opts.AllowedOrigins,
		metrics:        opts.Metrics,
		prometheus:     opts.Prometheus,
	}
}

// public routes only need the session of the browser
func (r *Router) public(pattern string, h http.HandlerFunc) {
	r.mux.Handle(pattern, middleware.SessionGate(r.sessions, r.cookie)(h))
}

// authed routes require a signed-in user of any role
func (r *Router) authed(pattern string, h http.HandlerFunc) {
	r.mux.Handle(pattern, middleware.SessionGate(r.sessions, r.cookie)(middleware.RequireAuth(h)))
}

// restricted routes require a signed-in user of one of roles
func (r *Router) restricted(pattern string, h http.HandlerFunc, roles ...entities.Role) {
	r.mux.Handle(pattern, middleware.SessionGate(r.sessions, r.cookie)(middleware.RequireRole(roles...)(h)))
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Public pages and auth
	r.public("GET /{$}", r.authHandler.Home)
	r.public("GET /login", r.authHandler.LoginPage)
	r.public("POST /api/auth/login", r.authHandler.Login)
	r.public("POST /api/auth/logout", r.authHandler.Logout)
	r.public("GET /api/session", r.authHandler.Session)
	r.public("GET "+streamPath, r.sseHandler.Stream)

	// The gateway redirects here; the session may have expired meanwhile
	r.public("GET /payment/callback", r.paymentHandler.Callback)

	// Dashboard pages; role checks per page happen in the handler
	r.authed("GET /dashboard", r.dashboardHandler.Index)
	r.authed("GET /dashboard/{page}", r.dashboardHandler.Page)

	// Profile
	r.authed("PATCH /dashboard/profile", r.authHandler.UpdateProfile)
	r.authed("PATCH /dashboard/profile/password", r.authHandler.ChangePassword)

	// Users
	r.restricted("POST /dashboard/users", r.userHandler.CreateUser, entities.RoleAdmin)
	r.restricted("PATCH /dashboard/users/{id}", r.userHandler.UpdateUser, entities.RoleAdmin)
	r.restricted("DELETE /dashboard/users/{id}", r.userHandler.DeleteUser, entities.RoleAdmin)

	// Patients
	r.restricted("GET /dashboard/patients/{id}", r.patientHandler.GetPatient, entities.RoleAdmin, entities.RoleReceptionist, entities.RoleDoctor)
	r.restricted("PATCH /dashboard/patients/{id}", r.patientHandler.UpdatePatient, entities.RoleAdmin, entities.RoleReceptionist)
	r.restricted("DELETE /dashboard/patients/{id}", r.patientHandler.DeletePatient, entities.RoleAdmin, entities.RoleReceptionist)

	// Appointments
	r.restricted("PATCH /dashboard/appointments/{id}", r.appointmentHandler.UpdateAppointment, entities.RoleAdmin, entities.RoleReceptionist)
	r.restricted("DELETE /dashboard/appointments/{id}", r.appointmentHandler.DeleteAppointment, entities.RoleAdmin, entities.RoleReceptionist)
	r.authed("GET /dashboard/appointments/{id}/treatment", r.appointmentHandler.GetTreatment)

	// Registration wizard
	r.restricted("GET /dashboard/register-patient/state", r.registrationHandler.State, entities.RoleReceptionist)
	r.restricted("POST /dashboard/register-patient/info", r.registrationHandler.SubmitInfo, entities.RoleReceptionist)
	r.restricted("POST /dashboard/register-patient/payment", r.registrationHandler.SubmitPayment, entities.RoleReceptionist)
	r.restricted("POST /dashboard/register-patient/back", r.registrationHandler.Back, entities.RoleReceptionist)
	r.restricted("POST /dashboard/register-patient/reset", r.registrationHandler.Reset, entities.RoleReceptionist)

	// Treatment flow
	r.restricted("POST /dashboard/treatments", r.treatmentHandler.Start, entities.RoleDoctor)
	r.restricted("POST /dashboard/treatments/follow-up", r.treatmentHandler.ScheduleFollowUp, entities.RoleDoctor)
	r.restricted("POST /dashboard/treatments/skip", r.treatmentHandler.Skip, entities.RoleDoctor)
	r.restricted("POST /dashboard/treatments/reset", r.treatmentHandler.Reset, entities.RoleDoctor)

	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}` + "\n"))
	})

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	if r.prometheus != nil {
		r.mux.Handle("GET /metrics", r.prometheus.Handler())
		r.prometheus.Gauge("hms_sse_clients", "Connected event stream clients", func() float64 {
			return float64(r.sseHandler.GetClientCount())
		})
		handler = r.prometheus.Middleware(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(streamPath)(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
