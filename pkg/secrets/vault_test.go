package secrets_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hms-frontdesk/pkg/secrets"
)

func vaultServer(t *testing.T, wantPath, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath || r.Header.Get("X-Vault-Token") != "root" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestApply_KV2(t *testing.T) {
	// Arrange
	srv := vaultServer(t, "/v1/secret/data/hms-frontdesk",
		`{"data":{"data":{"HMS_TEST_BACKEND_URL":"http://backend:8000","HMS_TEST_REDIS_DB":2,"HMS_TEST_KEEP":"vault"}}}`)
	t.Setenv("HMS_TEST_KEEP", "env")
	t.Cleanup(func() {
		os.Unsetenv("HMS_TEST_BACKEND_URL")
		os.Unsetenv("HMS_TEST_REDIS_DB")
	})
	cfg := secrets.VaultConfig{Enabled: true, Addr: srv.URL, Token: "root", Mount: "secret", Path: "hms-frontdesk", KVVersion: 2}

	// Act
	res, err := secrets.Apply(context.Background(), cfg)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, res.Loaded)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "http://backend:8000", os.Getenv("HMS_TEST_BACKEND_URL"))
	assert.Equal(t, "2", os.Getenv("HMS_TEST_REDIS_DB"))
	assert.Equal(t, "env", os.Getenv("HMS_TEST_KEEP"))
}

func TestFetch_KV1(t *testing.T) {
	srv := vaultServer(t, "/v1/kv/frontdesk", `{"data":{"REDIS_PASSWORD":"s3cret"}}`)
	cfg := secrets.VaultConfig{Addr: srv.URL + "/", Token: "root", Mount: "/kv/", Path: "frontdesk", KVVersion: 1}

	values, err := secrets.Fetch(context.Background(), cfg)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"REDIS_PASSWORD": "s3cret"}, values)
}

func TestFetch_Denied(t *testing.T) {
	srv := vaultServer(t, "/v1/secret/data/hms-frontdesk", `{}`)
	cfg := secrets.VaultConfig{Addr: srv.URL, Token: "wrong", Mount: "secret", Path: "hms-frontdesk", KVVersion: 2}

	_, err := secrets.Fetch(context.Background(), cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestApply_Disabled(t *testing.T) {
	res, err := secrets.Apply(context.Background(), secrets.VaultConfig{Path: "x"})

	require.NoError(t, err)
	assert.Zero(t, res.Loaded)
}
