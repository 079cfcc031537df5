package handlers

import (
	"net/http"

	"github.com/zatekoja/hms-frontdesk/internal/application/services"
	"github.com/zatekoja/hms-frontdesk/internal/application/workspace"
	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

// DashboardHandler serves the role dashboard and the JSON view of each page
type DashboardHandler struct{}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

type pageView func(r *http.Request, ws *workspace.Workspace, user *entities.User) (interface{}, error)

// Index handles GET /dashboard
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	ws, user := current(r)
	dashboard, err := ws.Dashboard.Render(r.Context(), user)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, dashboard)
}

// Page handles GET /dashboard/{page}
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	page := r.PathValue("page")
	view, ok := h.views()[page]
	if !ok {
		respondWithError(w, http.StatusNotFound, "not found")
		return
	}

	ws, user := current(r)
	if user == nil || !services.PageAllowed(page, user.Role) {
		respondWithAppError(w, r, apperrors.NewForbiddenError("You do not have access to this page"))
		return
	}

	data, err := view(r, ws, user)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithView(w, r, http.StatusOK, data)
}

func (h *DashboardHandler) views() map[string]pageView {
	return map[string]pageView{
		services.PageIndex:           h.index,
		services.PageUsers:           h.users,
		services.PagePatients:        h.patients,
		services.PageAllAppointments: h.allAppointments,
		services.PageRegisterPatient: h.registerPatient,
		services.PageQueue:           h.queue,
		services.PageAppointments:    h.appointments,
		services.PageTreatments:      h.treatments,
		services.PagePayments:        h.payments,
		services.PageProfile:         h.profile,
	}
}

func (h *DashboardHandler) index(r *http.Request, ws *workspace.Workspace, user *entities.User) (interface{}, error) {
	return ws.Dashboard.Render(r.Context(), user)
}

func (h *DashboardHandler) users(r *http.Request, ws *workspace.Workspace, _ *entities.User) (interface{}, error) {
	users, err := ws.Users.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		return nil, err
	}
	if role := entities.Role(r.URL.Query().Get("role")); role.Valid() {
		users = services.FilterByRole(users, role)
	}
	return map[string]interface{}{"users": users, "count": len(users)}, nil
}

func (h *DashboardHandler) patients(r *http.Request, ws *workspace.Workspace, _ *entities.User) (interface{}, error) {
	patients, err := ws.Patients.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"patients": patients, "count": len(patients)}, nil
}

func (h *DashboardHandler) allAppointments(r *http.Request, ws *workspace.Workspace, _ *entities.User) (interface{}, error) {
	return h.filterAppointments(r, ws, 0)
}

func (h *DashboardHandler) appointments(r *http.Request, ws *workspace.Workspace, user *entities.User) (interface{}, error) {
	var doctorID int64
	if user.Role == entities.RoleDoctor {
		doctorID = user.ID
	}
	return h.filterAppointments(r, ws, doctorID)
}

func (h *DashboardHandler) filterAppointments(r *http.Request, ws *workspace.Workspace, doctorID int64) (interface{}, error) {
	filter := services.AppointmentFilter{
		Tab:      r.URL.Query().Get("tab"),
		Search:   r.URL.Query().Get("q"),
		DoctorID: doctorID,
	}
	appointments, err := ws.Appointments.Filter(r.Context(), filter)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"appointments": appointments, "count": len(appointments), "tab": filter.Tab}, nil
}

func (h *DashboardHandler) registerPatient(r *http.Request, ws *workspace.Workspace, _ *entities.User) (interface{}, error) {
	doctors, err := ws.Users.Doctors(r.Context())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"wizard": ws.Wizard.State(), "doctors": doctors}, nil
}

func (h *DashboardHandler) queue(r *http.Request, ws *workspace.Workspace, _ *entities.User) (interface{}, error) {
	queue, err := ws.Patients.Queue(r.Context())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"queue": queue, "count": len(queue)}, nil
}

func (h *DashboardHandler) treatments(r *http.Request, ws *workspace.Workspace, user *entities.User) (interface{}, error) {
	pending, err := ws.Appointments.Filter(r.Context(), services.AppointmentFilter{Tab: "pending", DoctorID: user.ID})
	if err != nil {
		return nil, err
	}
	treatments, err := ws.Treatments.ForDoctor(r.Context(), user.ID, 0)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"pending_appointments": pending,
		"treatments":           treatments,
		"flow":                 ws.TreatmentFlow.State(),
	}, nil
}

func (h *DashboardHandler) payments(r *http.Request, ws *workspace.Workspace, _ *entities.User) (interface{}, error) {
	payments, err := ws.Payments.List(r.Context())
	if err != nil {
		return nil, err
	}
	today, err := ws.Payments.TodayStats(r.Context())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"payments": ws.Dashboard.PaymentRows(r.Context(), payments),
		"stats":    services.SummarizePayments(payments),
		"today":    today,
	}, nil
}

func (h *DashboardHandler) profile(r *http.Request, ws *workspace.Workspace, _ *entities.User) (interface{}, error) {
	user, err := ws.Session.Profile(r.Context())
	if err != nil {
		return nil, err
	}
	claims, _ := ws.Session.Claims(r.Context())
	return map[string]interface{}{"user": user, "claims": claims}, nil
}
