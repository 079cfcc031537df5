package hmsapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/hmsapi"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

func staticToken(token string) hmsapi.TokenSource {
	return func(ctx context.Context) (string, error) { return token, nil }
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/patients/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "first_name": "Abebe"}]`))
	}))
	defer server.Close()

	client := hmsapi.NewClient(server.URL+"/", time.Second).WithToken(staticToken("abc"))

	var out []map[string]interface{}
	require.NoError(t, client.Get(context.Background(), "/patients/", &out))
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Len(t, out, 1)
}

func TestClient_NoTokenSendsNoHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"access": "a", "refresh": "r"}`))
	}))
	defer server.Close()

	client := hmsapi.NewClient(server.URL, time.Second).WithToken(staticToken(""))
	var out map[string]string
	require.NoError(t, client.Post(context.Background(), "/accounts/auth/login/", map[string]string{"username": "u"}, &out))
	assert.Equal(t, "a", out["access"])
}

func TestClient_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   apperrors.ErrorType
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail": "Token expired"}`, apperrors.ErrorTypeUnauthorized},
		{"forbidden", http.StatusForbidden, `{"detail": "nope"}`, apperrors.ErrorTypeForbidden},
		{"not found", http.StatusNotFound, `{"detail": "Not found."}`, apperrors.ErrorTypeNotFound},
		{"validation", http.StatusBadRequest, `{"contact_number": ["This field is required."]}`, apperrors.ErrorTypeValidation},
		{"server error", http.StatusInternalServerError, `<html>oops</html>`, apperrors.ErrorTypeExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := hmsapi.NewClient(server.URL, time.Second).Get(context.Background(), "/x/", &struct{}{})
			require.Error(t, err)
			assert.Equal(t, tt.want, apperrors.TypeOf(err))

			apiErr, ok := hmsapi.AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestMessageFrom(t *testing.T) {
	withDetail := &hmsapi.APIError{StatusCode: 400, Body: map[string]json.RawMessage{
		"detail":        json.RawMessage(`"Cannot delete the primary admin"`),
		"non_field_err": json.RawMessage(`["ignored"]`),
	}}
	withFields := &hmsapi.APIError{StatusCode: 400, Body: map[string]json.RawMessage{
		"patient_id":  json.RawMessage(`["Invalid pk \"9\""]`),
		"appointment": json.RawMessage(`["This field is required.","Second."]`),
	}}
	empty := &hmsapi.APIError{StatusCode: 500}

	assert.Equal(t, "Cannot delete the primary admin", hmsapi.MessageFrom(withDetail, "Failed to delete user"))
	assert.Equal(t, "Failed to delete user", hmsapi.MessageFrom(withFields, "Failed to delete user"))
	assert.Equal(t, "Failed to delete user", hmsapi.MessageFrom(errors.New("dial tcp: refused"), "Failed to delete user"))

	assert.Equal(t, "appointment: This field is required.,Second., patient_id: Invalid pk \"9\"",
		hmsapi.DetailedMessageFrom(withFields, "Failed to record treatment"))
	assert.Equal(t, "Failed to record treatment", hmsapi.DetailedMessageFrom(empty, "Failed to record treatment"))

	wrapped := fmt.Errorf("create treatment: %w", withDetail)
	assert.Equal(t, "Cannot delete the primary admin", hmsapi.DetailedMessageFrom(wrapped, "x"))
}

func TestAPIError_FieldErrorsKeepPayloadOrder(t *testing.T) {
	// Arrange
	apiErr := hmsapi.NewAPIError(http.MethodPost, "/treatments/", http.StatusBadRequest,
		[]byte(`{"patient_id":["Invalid pk \"9\""],"appointment":["This field is required."],"diagnosis":"Too long."}`))

	// Act
	fields := apiErr.FieldErrors()

	// Assert
	assert.Equal(t, []string{"patient_id", "appointment", "diagnosis"}, apiErr.Fields)
	assert.Equal(t, `patient_id: Invalid pk "9", appointment: This field is required., diagnosis: Too long.`, fields)
	assert.Equal(t, fields, hmsapi.DetailedMessageFrom(apiErr, "Failed to record treatment"))
}

func TestNewAPIError_NonObjectBody(t *testing.T) {
	apiErr := hmsapi.NewAPIError(http.MethodGet, "/patients/", http.StatusBadGateway, []byte(`<html>Bad Gateway</html>`))

	assert.Empty(t, apiErr.Body)
	assert.Empty(t, apiErr.FieldErrors())
	assert.Equal(t, "fallback", hmsapi.DetailedMessageFrom(apiErr, "fallback"))
}

func TestMessageFrom_ClientSideValidation(t *testing.T) {
	err := apperrors.NewValidationError("Passwords do not match")
	assert.Equal(t, "Passwords do not match", hmsapi.MessageFrom(err, "Failed to change password"))
}

func TestAPIError_FieldError(t *testing.T) {
	apiErr := &hmsapi.APIError{StatusCode: 400, Body: map[string]json.RawMessage{
		"new_password": json.RawMessage(`["This password is too short."]`),
	}}
	assert.Equal(t, "This password is too short.", apiErr.FieldError("new_password"))
	assert.Empty(t, apiErr.FieldError("detail"))
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, hmsapi.IsUnauthorized(fmt.Errorf("wrap: %w", &hmsapi.APIError{StatusCode: 401})))
	assert.False(t, hmsapi.IsUnauthorized(&hmsapi.APIError{StatusCode: 500}))
	assert.False(t, hmsapi.IsUnauthorized(errors.New("network")))
}

func TestClient_BreakerIgnoresClientErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "bad"}`))
	}))
	defer server.Close()

	client := hmsapi.NewClient(server.URL, time.Second)
	for i := 0; i < 8; i++ {
		err := client.Get(context.Background(), "/patients/", &struct{}{})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	}
	assert.Equal(t, 8, calls)
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := hmsapi.NewClient(server.URL, time.Second, hmsapi.WithBreaker(hmsapi.NewCircuitBreaker("test")))
	for i := 0; i < 7; i++ {
		_ = client.Get(context.Background(), "/patients/", &struct{}{})
	}
	assert.Equal(t, 5, calls)

	err := client.Get(context.Background(), "/patients/", &struct{}{})
	assert.Equal(t, apperrors.ErrorTypeExternal, apperrors.TypeOf(err))
	_, isAPI := hmsapi.AsAPIError(err)
	assert.False(t, isAPI)
}

func TestClient_DeleteDiscardsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	require.NoError(t, hmsapi.NewClient(server.URL, time.Second).Delete(context.Background(), "/patients/4/"))
}
