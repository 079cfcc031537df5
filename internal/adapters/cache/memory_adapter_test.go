package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
)

func TestMemoryAdapter_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryAdapter()

	_, err := cache.Get(ctx, "patients")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "patients", []byte(`[1]`), 0))
	got, err := cache.Get(ctx, "patients")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), got)

	require.NoError(t, cache.Delete(ctx, "patients", "absent"))
	exists, err := cache.Exists(ctx, "patients")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryAdapter_Expiration(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryAdapter()
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "users", []byte(`[]`), 60))
	_, err := cache.Get(ctx, "users")
	require.NoError(t, err)

	now = now.Add(61 * time.Second)
	_, err = cache.Get(ctx, "users")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestMemoryAdapter_DeletePattern(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryAdapter()
	for _, key := range []string{"hms:q:a:patients", "hms:q:a:users", "hms:q:b:patients"} {
		require.NoError(t, cache.Set(ctx, key, []byte("x"), 0))
	}

	require.NoError(t, cache.DeletePattern(ctx, "hms:q:a:*"))

	for key, want := range map[string]bool{"hms:q:a:patients": false, "hms:q:a:users": false, "hms:q:b:patients": true} {
		exists, err := cache.Exists(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, exists, key)
	}
}
