package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
)

// Entry is one cached query result
type Entry struct {
	Data        json.RawMessage `json:"data"`
	FetchedAt   time.Time       `json:"fetched_at"`
	StaleUntil  time.Time       `json:"stale_until"`
	Invalidated bool            `json:"invalidated"`
}

// Fresh reports whether the entry can be served without a fetch
func (e *Entry) Fresh(now time.Time) bool {
	return !e.Invalidated && now.Before(e.StaleUntil)
}

// Store maps serialized keys to entries inside one namespace of a CacheProvider
type Store struct {
	provider  providers.CacheProvider
	namespace string
	gcTime    time.Duration
}

// NewStore creates a store whose keys are prefixed with namespace
func NewStore(provider providers.CacheProvider, namespace string, gcTime time.Duration) *Store {
	return &Store{provider: provider, namespace: namespace, gcTime: gcTime}
}

// Namespace returns the prefix shared by every key of the store
func (s *Store) Namespace() string {
	return s.namespace
}

func (s *Store) storageKey(key Key) string {
	return s.namespace + key.String()
}

// Get returns the entry of key, or false when absent
func (s *Store) Get(ctx context.Context, key Key) (*Entry, bool, error) {
	data, err := s.provider.Get(ctx, s.storageKey(key))
	if errors.Is(err, providers.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	entry := &Entry{}
	if err := json.Unmarshal(data, entry); err != nil {
		return nil, false, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return entry, true, nil
}

// Put stores an entry, kept until gcTime after it goes stale
func (s *Store) Put(ctx context.Context, key Key, entry *Entry, now time.Time) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}
	ttl := entry.StaleUntil.Add(s.gcTime).Sub(now)
	seconds := int(ttl.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return s.provider.Set(ctx, s.storageKey(key), data, seconds)
}

// MarkInvalidated flags an existing entry so the next read refetches it
func (s *Store) MarkInvalidated(ctx context.Context, key Key, now time.Time) error {
	entry, ok, err := s.Get(ctx, key)
	if err != nil {
		// an undecodable entry cannot be served either
		return s.provider.Delete(ctx, s.storageKey(key))
	}
	if !ok || entry.Invalidated {
		return nil
	}
	entry.Invalidated = true
	return s.Put(ctx, key, entry, now)
}

// Clear drops every entry of the namespace
func (s *Store) Clear(ctx context.Context) error {
	return s.provider.DeletePattern(ctx, s.namespace+"*")
}
