package events

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
)

// ErrBusClosed is returned when publishing on a closed bus
var ErrBusClosed = errors.New("event bus closed")

// MemoryEventBus implements the EventBus interface within one process
type MemoryEventBus struct {
	fanout *fanout
	closed atomic.Bool
}

// NewMemoryEventBus creates a new in-process event bus
func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{fanout: newFanout()}
}

var _ providers.EventBus = (*MemoryEventBus)(nil)

func (b *MemoryEventBus) Publish(ctx context.Context, channel string, event *entities.WorkspaceEvent) error {
	if b.closed.Load() {
		return ErrBusClosed
	}
	if dropped := b.fanout.broadcast(channel, event); dropped > 0 {
		observability.LoggerFromContext(ctx).Warn().Str("channel", channel).Int("dropped", dropped).
			Msg("Subscriber channel full, skipping event")
	}
	return nil
}

func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.WorkspaceEvent, error) {
	if b.closed.Load() {
		return nil, ErrBusClosed
	}
	ch, _ := b.fanout.add(channel)
	go func() {
		<-ctx.Done()
		b.fanout.remove(channel, ch)
	}()
	return ch, nil
}

func (b *MemoryEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.fanout.closeChannel(channel)
	return nil
}

func (b *MemoryEventBus) Close() error {
	if b.closed.CompareAndSwap(false, true) {
		b.fanout.closeAll()
	}
	return nil
}
