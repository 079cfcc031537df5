package hmsapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

// APIError is a non-2xx answer of the hospital backend
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       map[string]json.RawMessage
	// Fields lists the keys of Body in payload order
	Fields []string
}

// NewAPIError decodes a non-2xx response body. A body that is not a JSON
// object leaves Body empty.
func NewAPIError(method, path string, status int, raw []byte) *APIError {
	apiErr := &APIError{Method: method, Path: path, StatusCode: status}
	apiErr.Body, apiErr.Fields = decodeObject(raw)
	return apiErr
}

// decodeObject walks the top-level members of a JSON object, keeping the
// order their keys appear in
func decodeObject(raw []byte) (map[string]json.RawMessage, []string) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, nil
	}
	body := make(map[string]json.RawMessage)
	var fields []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		key, ok := tok.(string)
		if !ok {
			break
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			break
		}
		if _, seen := body[key]; !seen {
			fields = append(fields, key)
		}
		body[key] = value
	}
	return body, fields
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hms api returned status %d for %s %s", e.StatusCode, e.Method, e.Path)
}

// Detail returns the top-level "detail" message, if any
func (e *APIError) Detail() string {
	return e.stringField("detail")
}

// FieldError returns the first message of a field error such as
// {"new_password": ["too short"]}
func (e *APIError) FieldError(field string) string {
	return e.stringField(field)
}

// FieldErrors joins every field error as "field: message" pairs in payload
// order. An error built without Fields falls back to sorted field names.
func (e *APIError) FieldErrors() string {
	if len(e.Body) == 0 {
		return ""
	}
	fields := e.Fields
	if len(fields) != len(e.Body) {
		fields = make([]string, 0, len(e.Body))
		for field := range e.Body {
			fields = append(fields, field)
		}
		sort.Strings(fields)
	}

	pairs := make([]string, 0, len(fields))
	for _, field := range fields {
		pairs = append(pairs, field+": "+flatten(e.Body[field]))
	}
	return strings.Join(pairs, ", ")
}

func (e *APIError) stringField(field string) string {
	raw, ok := e.Body[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

// flatten renders a field value the way the backend's list messages read: comma joined
func flatten(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	}
	return string(raw)
}

// AsAPIError extracts the backend error from err's chain
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// MessageFrom returns the backend "detail" message, or fallback
func MessageFrom(err error, fallback string) string {
	if apiErr, ok := AsAPIError(err); ok {
		if detail := apiErr.Detail(); detail != "" {
			return detail
		}
	}
	if appErr := new(apperrors.AppError); errors.As(err, &appErr) && appErr.Err == nil && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// DetailedMessageFrom prefers "detail", then the joined field errors, then fallback
func DetailedMessageFrom(err error, fallback string) string {
	if apiErr, ok := AsAPIError(err); ok {
		if detail := apiErr.Detail(); detail != "" {
			return detail
		}
		if fields := apiErr.FieldErrors(); fields != "" {
			return fields
		}
	}
	return MessageFrom(err, fallback)
}

// IsUnauthorized reports whether the backend rejected the token
func IsUnauthorized(err error) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// classify wraps a backend error into the application taxonomy
func classify(apiErr *APIError) error {
	message := apiErr.Detail()
	if message == "" {
		message = http.StatusText(apiErr.StatusCode)
	}

	var errType apperrors.ErrorType
	switch {
	case apiErr.StatusCode == http.StatusUnauthorized:
		errType = apperrors.ErrorTypeUnauthorized
	case apiErr.StatusCode == http.StatusForbidden:
		errType = apperrors.ErrorTypeForbidden
	case apiErr.StatusCode == http.StatusNotFound:
		errType = apperrors.ErrorTypeNotFound
	case apiErr.StatusCode == http.StatusConflict:
		errType = apperrors.ErrorTypeConflict
	case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		errType = apperrors.ErrorTypeValidation
	default:
		errType = apperrors.ErrorTypeExternal
	}

	return &apperrors.AppError{Type: errType, Message: message, Err: apiErr}
}
