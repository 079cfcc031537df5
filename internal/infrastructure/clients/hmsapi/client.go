package hmsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hms-frontdesk/pkg/errors"
)

// DefaultBaseURL is the address of a locally running hospital backend
const DefaultBaseURL = "http://127.0.0.1:8000"

// TokenSource returns the bearer token for the next request; "" sends none
type TokenSource func(ctx context.Context) (string, error)

// Client talks JSON to the hospital REST backend. Copies made by
// WithToken share the transport and the circuit breaker.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	token      TokenSource
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithMetrics records backend call durations
func WithMetrics(metrics *observability.Metrics) Option {
	return func(c *Client) { c.metrics = metrics }
}

// WithBreaker replaces the default circuit breaker
func WithBreaker(breaker *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = breaker }
}

// NewClient creates a backend client; a zero timeout means 10 seconds
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = NewCircuitBreaker("hms-backend")
	}
	return c
}

// NewCircuitBreaker opens after five consecutive transport failures or 5xx answers.
// 4xx answers are the backend working as intended and never trip it.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			apiErr, ok := AsAPIError(err)
			return ok && apiErr.StatusCode < http.StatusInternalServerError
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			observability.GetLogger().Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
}

// WithToken returns a copy of the client that authenticates with src
func (c *Client) WithToken(src TokenSource) *Client {
	clone := *c
	clone.token = src
	return &clone
}

// BaseURL returns the backend address without trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get decodes the answer of a GET into out
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON and decodes the answer into out (nil discards it)
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Patch sends body as JSON and decodes the answer into out (nil discards it)
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	ctx, span := observability.StartSpan(ctx, "hmsapi "+method)
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.String("http.method", method),
		attribute.String("hms.endpoint", path),
	)

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = encoded
	}

	start := time.Now()
	status := 0
	_, err := c.breaker.Execute(func() (interface{}, error) {
		code, err := c.roundTrip(ctx, method, path, payload, out)
		status = code
		return nil, err
	})
	observability.RecordBackendCall(ctx, c.metrics, method, path, status, time.Since(start))

	if err != nil {
		observability.RecordError(span, err)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return apperrors.NewExternalError("hospital backend unavailable", err)
		}
		return err
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, out interface{}) (int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to read access token: %w", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, apperrors.NewExternalError("hospital backend unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return resp.StatusCode, classify(NewAPIError(method, path, resp.StatusCode, raw))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, apperrors.NewExternalError("failed to decode hospital backend response", err)
	}
	return resp.StatusCode, nil
}
