package providers

import "context"

// SessionStorage persists the string values of one auth session under
// the fixed keys in entities (token, refresh token, serialized user).
type SessionStorage interface {
	// Get returns the value and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value
	Set(ctx context.Context, key, value string) error

	// Delete removes the given keys; absent keys are ignored
	Delete(ctx context.Context, keys ...string) error
}
