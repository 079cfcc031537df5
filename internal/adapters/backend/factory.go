package backend

import (
	"context"

	"github.com/zatekoja/hms-frontdesk/internal/application/workspace"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
)

// NewRepositoryFactory returns the factory wiring every repository of a
// session to client, authenticated with the session's token
func NewRepositoryFactory(client *hmsapi.Client) workspace.RepositoryFactory {
	return func(token func(ctx context.Context) (string, error)) workspace.Repositories {
		authed := client.WithToken(token)
		return workspace.Repositories{
			Auth:         NewAuthAdapter(authed),
			Users:        NewUserAdapter(authed),
			Patients:     NewPatientAdapter(authed),
			Appointments: NewAppointmentAdapter(authed),
			Treatments:   NewTreatmentAdapter(authed),
			Payments:     NewPaymentAdapter(authed),
		}
	}
}
