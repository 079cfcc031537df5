package query

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
	"github.com/zatekoja/hms-frontdesk/pkg/retry"
)

// flight is one outstanding fetch shared by every concurrent reader of a key
type flight struct {
	generation uint64
	done       chan struct{}
	data       json.RawMessage
	err        error
}

// Client serves reads from the store while fresh, fetches otherwise, and
// invalidates keys after mutations. One client owns the key space of one
// session; invalidation is visible to every page reading through it.
type Client struct {
	store     *Store
	policy    Policy
	bus       providers.EventBus
	sessionID string
	metrics   *observability.Metrics
	now       func() time.Time

	mu          sync.Mutex
	flights     map[string]*flight
	generations map[string]uint64
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithEventBus publishes invalidations on the session channel
func WithEventBus(bus providers.EventBus, sessionID string) ClientOption {
	return func(c *Client) {
		c.bus = bus
		c.sessionID = sessionID
	}
}

// WithMetrics records cache hits, misses and invalidations
func WithMetrics(metrics *observability.Metrics) ClientOption {
	return func(c *Client) { c.metrics = metrics }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

// NewClient creates a query client over store
func NewClient(store *Store, policy Policy, opts ...ClientOption) *Client {
	c := &Client{
		store:       store,
		policy:      policy,
		now:         time.Now,
		flights:     make(map[string]*flight),
		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached value of key while fresh, otherwise runs fetch,
// caches its result and returns it. Concurrent calls for the same key share
// one fetch.
func Fetch[T any](ctx context.Context, c *Client, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var out T
	raw, err := c.fetchRaw(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(value)
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return out, nil
}

// Prefetch warms key without returning the value
func Prefetch[T any](ctx context.Context, c *Client, key Key, fetch func(ctx context.Context) (T, error)) error {
	_, err := Fetch(ctx, c, key, fetch)
	return err
}

func (c *Client) fetchRaw(ctx context.Context, key Key, fetch func(ctx context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	logger := observability.LoggerFromContext(ctx)
	id := key.String()

	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Str("key", id).Msg("Query store read failed, fetching")
	}
	if ok && entry.Fresh(c.now()) {
		observability.RecordCacheHit(ctx, c.metrics, id)
		return entry.Data, nil
	}
	observability.RecordCacheMiss(ctx, c.metrics, id)

	c.mu.Lock()
	generation := c.generations[id]
	if f, exists := c.flights[id]; exists && f.generation == generation {
		c.mu.Unlock()
		select {
		case <-f.done:
			return f.data, f.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f := &flight{generation: generation, done: make(chan struct{})}
	c.flights[id] = f
	c.generations[id] = generation
	c.mu.Unlock()

	// the shared fetch outlives a reader that goes away
	fetchCtx := context.WithoutCancel(ctx)
	fetchedAt := c.now()
	var data json.RawMessage
	f.err = retry.Do(fetchCtx, c.policy.Retry(key), func() error {
		var err error
		data, err = fetch(fetchCtx)
		return err
	})
	f.data = data

	c.mu.Lock()
	superseded := c.generations[id] != f.generation
	if c.flights[id] == f {
		delete(c.flights, id)
	}
	c.mu.Unlock()

	if f.err == nil {
		fresh := &Entry{
			Data:        data,
			FetchedAt:   fetchedAt,
			StaleUntil:  fetchedAt.Add(c.policy.StaleTime(key)),
			Invalidated: superseded,
		}
		if err := c.store.Put(fetchCtx, key, fresh, c.now()); err != nil {
			logger.Warn().Err(err).Str("key", id).Msg("Query store write failed")
		}

		// Invalidate bumps the generation before marking the store, so an
		// invalidation that found no entry to mark is caught here
		c.mu.Lock()
		raced := !superseded && c.generations[id] != f.generation
		c.mu.Unlock()
		if raced {
			if err := c.store.MarkInvalidated(fetchCtx, key, c.now()); err != nil {
				logger.Warn().Err(err).Str("key", id).Msg("Failed to invalidate query")
			}
		}
	}
	close(f.done)

	return f.data, f.err
}

// SetData replaces the cached value of key, as after a mutation that
// returns the new state
func (c *Client) SetData(ctx context.Context, key Key, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	c.mu.Lock()
	c.generations[key.String()]++
	c.mu.Unlock()

	now := c.now()
	return c.store.Put(ctx, key, &Entry{
		Data:       data,
		FetchedAt:  now,
		StaleUntil: now.Add(c.policy.StaleTime(key)),
	}, now)
}

// Invalidate marks keys so their next read refetches regardless of the
// freshness window, then announces them on the session channel. Fetches
// already in flight for these keys are not reused by later readers.
func (c *Client) Invalidate(ctx context.Context, keys ...Key) {
	if len(keys) == 0 {
		return
	}
	logger := observability.LoggerFromContext(ctx)

	c.mu.Lock()
	for _, key := range keys {
		c.generations[key.String()]++
	}
	c.mu.Unlock()

	now := c.now()
	for _, key := range keys {
		if err := c.store.MarkInvalidated(ctx, key, now); err != nil {
			logger.Warn().Err(err).Str("key", key.String()).Msg("Failed to invalidate query")
		}
	}
	observability.RecordInvalidation(ctx, c.metrics, Strings(keys)...)

	if c.bus != nil {
		event := entities.NewInvalidationEvent(c.sessionID, Strings(keys))
		if err := c.bus.Publish(ctx, providers.GetWorkspaceChannel(c.sessionID), event); err != nil {
			logger.Warn().Err(err).Msg("Failed to publish invalidation")
		}
	}
}

// Clear drops every cached query of the client
func (c *Client) Clear(ctx context.Context) error {
	c.mu.Lock()
	for id := range c.generations {
		c.generations[id]++
	}
	c.mu.Unlock()
	return c.store.Clear(ctx)
}

// Peek returns the cached entry of key without fetching
func (c *Client) Peek(ctx context.Context, key Key) (*Entry, bool) {
	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	return entry, ok
}
