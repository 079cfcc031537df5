package providers

import (
	"context"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to workspace events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.WorkspaceEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.WorkspaceEvent, error)

	// Unsubscribe drops every subscriber of a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelWorkspacePrefix is the prefix for per-session channels
const EventChannelWorkspacePrefix = "workspace:"

// GetWorkspaceChannel returns the channel name for a browser session
func GetWorkspaceChannel(sessionID string) string {
	return EventChannelWorkspacePrefix + sessionID
}
