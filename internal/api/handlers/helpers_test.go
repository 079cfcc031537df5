package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hms-frontdesk/internal/adapters/backend"
	"github.com/zatekoja/hms-frontdesk/internal/adapters/cache"
	"github.com/zatekoja/hms-frontdesk/internal/adapters/events"
	"github.com/zatekoja/hms-frontdesk/internal/adapters/session"
	"github.com/zatekoja/hms-frontdesk/internal/application/services"
	"github.com/zatekoja/hms-frontdesk/internal/application/workspace"
	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
	"github.com/zatekoja/hms-frontdesk/internal/query"
	"github.com/zatekoja/hms-frontdesk/pkg/config"
)

// newWorkspace wires a signed-in workspace whose backend is served by mux
func newWorkspace(t *testing.T, mux *http.ServeMux, user entities.User) (*workspace.Workspace, *events.MemoryEventBus) {
	t.Helper()
	if mux == nil {
		mux = http.NewServeMux()
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { _ = bus.Close() })

	policy := query.DefaultPolicy()
	policy.Retries = 0
	ws := workspace.New("handler-test", workspace.Options{
		Cache: cache.NewMemoryAdapter(),
		Bus:   bus,
		Storage: func(string) providers.SessionStorage {
			return session.NewMemoryStorage()
		},
		Repositories: backend.NewRepositoryFactory(hmsapi.NewClient(server.URL, time.Second)),
		Policy:       policy,
		Flags:        services.NewFeatureFlags(config.FeatureConfig{}),
	})
	require.NoError(t, ws.Session.Establish(context.Background(), &entities.LoginResponse{
		Access:  "a.b.c",
		Refresh: "r",
		User:    user,
	}))
	return ws, bus
}

func request(ctx context.Context, ws *workspace.Workspace, method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(workspace.WithContext(ctx, ws))
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
