package cache

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// MemoryAdapter implements the CacheProvider interface in process memory.
// It backs the CLI and deployments without Redis.
type MemoryAdapter struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryAdapter creates an empty in-memory cache
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

var _ providers.CacheProvider = (*MemoryAdapter)(nil)

func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	item, ok := a.items[key]
	a.mu.RUnlock()
	if !ok || item.expired(a.now()) {
		return nil, providers.ErrCacheMiss
	}
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	item := memoryItem{value: append([]byte(nil), value...)}
	if expirationSeconds > 0 {
		item.expiresAt = a.now().Add(time.Duration(expirationSeconds) * time.Second)
	}
	a.mu.Lock()
	a.items[key] = item
	a.mu.Unlock()
	return nil
}

func (a *MemoryAdapter) Delete(ctx context.Context, keys ...string) error {
	a.mu.Lock()
	for _, key := range keys {
		delete(a.items, key)
	}
	a.mu.Unlock()
	return nil
}

// DeletePattern supports the glob syntax of path.Match, which covers the
// Redis patterns used here ("hms:q:<session>:*").
func (a *MemoryAdapter) DeletePattern(ctx context.Context, pattern string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for key := range a.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(a.items, key)
		}
	}
	return nil
}

func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	a.mu.RLock()
	item, ok := a.items[key]
	a.mu.RUnlock()
	return ok && !item.expired(a.now()), nil
}
