package session

import (
	"context"
	"sync"

	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
)

// MemoryStorage keeps session values in process memory
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage creates an empty in-memory session storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

var _ providers.SessionStorage = (*MemoryStorage)(nil)

func (s *MemoryStorage) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStorage) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.values, key)
	}
	s.mu.Unlock()
	return nil
}
