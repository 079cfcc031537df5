package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
)

func TestFileStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hmsctl", "session.json")
	storage := NewFileStorage(path)

	_, ok, err := storage.Get(ctx, entities.SessionKeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.Set(ctx, entities.SessionKeyToken, "access"))
	require.NoError(t, storage.Set(ctx, entities.SessionKeyUser, `{"id":1}`))

	reopened := NewFileStorage(path)
	token, ok, err := reopened.Get(ctx, entities.SessionKeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "access", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStorage_DeleteAllRemovesFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	storage := NewFileStorage(path)

	require.NoError(t, storage.Set(ctx, entities.SessionKeyToken, "a"))
	require.NoError(t, storage.Set(ctx, entities.SessionKeyRefreshToken, "r"))
	require.NoError(t, storage.Delete(ctx, entities.SessionKeyToken, entities.SessionKeyRefreshToken, entities.SessionKeyUser))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFileStorage(path).Get(context.Background(), entities.SessionKeyToken)
	assert.Error(t, err)
}
