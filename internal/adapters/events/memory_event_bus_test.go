package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
)

func TestMemoryEventBus_FansOutToEverySubscriber(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := providers.GetWorkspaceChannel("s1")
	first, err := bus.Subscribe(ctx, channel)
	require.NoError(t, err)
	second, err := bus.Subscribe(ctx, channel)
	require.NoError(t, err)
	other, err := bus.Subscribe(ctx, providers.GetWorkspaceChannel("s2"))
	require.NoError(t, err)

	event := entities.NewInvalidationEvent("s1", []string{"patients", "patients:today"})
	require.NoError(t, bus.Publish(ctx, channel, event))

	for _, ch := range []<-chan *entities.WorkspaceEvent{first, second} {
		select {
		case got := <-ch:
			assert.Equal(t, event.ID, got.ID)
			assert.Equal(t, []string{"patients", "patients:today"}, got.Keys)
		case <-time.After(time.Second):
			t.Fatal("expected event")
		}
	}

	select {
	case <-other:
		t.Fatal("other session must not receive the event")
	default:
	}
}

func TestMemoryEventBus_ContextCancelClosesSubscription(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx, "workspace:s1")
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected channel to close")
	}
}

func TestMemoryEventBus_PublishAfterClose(t *testing.T) {
	bus := NewMemoryEventBus()
	require.NoError(t, bus.Close())
	err := bus.Publish(context.Background(), "workspace:s1", entities.NewNotificationEvent("s1", entities.NotificationInfo, "hi"))
	assert.ErrorIs(t, err, ErrBusClosed)
}
