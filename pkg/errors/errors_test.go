package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WrappedTypeSurvives(t *testing.T) {
	base := NewUnauthorizedError("token expired")
	wrapped := fmt.Errorf("fetch profile: %w", base)

	assert.True(t, Is(wrapped, ErrorTypeUnauthorized))
	assert.False(t, Is(wrapped, ErrorTypeValidation))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewNotFoundError("x"), http.StatusNotFound},
		{NewValidationError("x"), http.StatusBadRequest},
		{NewForbiddenError("x"), http.StatusForbidden},
		{NewExternalError("x", nil), http.StatusBadGateway},
		{NewInternalError("x", nil), http.StatusInternalServerError},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestAppError_Error(t *testing.T) {
	err := NewExternalError("backend unreachable", fmt.Errorf("dial tcp"))
	assert.Equal(t, "EXTERNAL: backend unreachable: dial tcp", err.Error())
	assert.Equal(t, "NOT_FOUND: missing", NewNotFoundError("missing").Error())
}
