package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
	redisclient "github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/redis"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
)

// RedisEventBus implements the EventBus interface using Redis Pub/Sub, so
// every BFF replica serving a session sees its invalidations.
type RedisEventBus struct {
	client        *redisclient.Client
	subscriptions map[string]*redis.PubSub
	fanout        *fanout
	mu            sync.Mutex
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		subscriptions: make(map[string]*redis.PubSub),
		fanout:        newFanout(),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Publish publishes an event to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.WorkspaceEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("channel", channel).
		Str("event_id", event.ID).
		Str("event_type", string(event.EventType)).
		Msg("Published workspace event")
	return nil
}

// Subscribe subscribes to events on a channel
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.WorkspaceEvent, error) {
	b.mu.Lock()
	if _, exists := b.subscriptions[channel]; !exists {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		b.subscriptions[channel] = pubsub
		go b.receiveMessages(channel, pubsub)
	}
	b.mu.Unlock()

	eventChan, count := b.fanout.add(channel)
	observability.GetLogger().Debug().Str("channel", channel).Int("subscribers", count).Msg("Subscribed to channel")

	go func() {
		<-ctx.Done()
		if b.fanout.remove(channel, eventChan) == 0 {
			b.closeSubscription(channel)
		}
	}()

	return eventChan, nil
}

// receiveMessages receives messages from Redis and broadcasts them to subscribers
func (b *RedisEventBus) receiveMessages(channel string, pubsub *redis.PubSub) {
	logger := observability.GetLogger()
	ch := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event entities.WorkspaceEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn().Err(err).Str("channel", channel).Msg("Failed to unmarshal workspace event")
				continue
			}

			if dropped := b.fanout.broadcast(channel, &event); dropped > 0 {
				logger.Warn().Str("channel", channel).Str("event_id", event.ID).Int("dropped", dropped).
					Msg("Subscriber channel full, skipping event")
			}
		}
	}
}

func (b *RedisEventBus) closeSubscription(channel string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if pubsub, ok := b.subscriptions[channel]; ok {
		_ = pubsub.Close()
		delete(b.subscriptions, channel)
	}
}

// Unsubscribe unsubscribes from a channel
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.fanout.closeChannel(channel)
	b.closeSubscription(channel)
	return nil
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.Lock()
	var errs []error
	for channel, pubsub := range b.subscriptions {
		if err := pubsub.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close subscription %s: %w", channel, err))
		}
		delete(b.subscriptions, channel)
	}
	b.mu.Unlock()

	b.fanout.closeAll()

	if len(errs) > 0 {
		return fmt.Errorf("errors closing event bus: %v", errs)
	}
	return nil
}
