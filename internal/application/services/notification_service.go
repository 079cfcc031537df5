package services

import (
	"context"
	"sync"

	"github.com/zatekoja/hms-frontdesk/internal/domain/entities"
	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
)

const maxPendingNotifications = 50

// NotificationService delivers toast notifications of one session: it keeps
// them until the next response drains them and streams them on the
// session channel for open pages.
type NotificationService struct {
	bus       providers.EventBus
	sessionID string

	mu      sync.Mutex
	pending []*entities.WorkspaceEvent
}

// NewNotificationService creates a notification service; bus may be nil
func NewNotificationService(bus providers.EventBus, sessionID string) *NotificationService {
	return &NotificationService{bus: bus, sessionID: sessionID}
}

// Success records a success toast
func (n *NotificationService) Success(ctx context.Context, message string) {
	n.notify(ctx, entities.NotificationSuccess, message)
}

// Error records an error toast
func (n *NotificationService) Error(ctx context.Context, message string) {
	n.notify(ctx, entities.NotificationError, message)
}

// Info records an informational toast
func (n *NotificationService) Info(ctx context.Context, message string) {
	n.notify(ctx, entities.NotificationInfo, message)
}

func (n *NotificationService) notify(ctx context.Context, level entities.NotificationLevel, message string) {
	if n == nil {
		return
	}
	event := entities.NewNotificationEvent(n.sessionID, level, message)

	n.mu.Lock()
	n.pending = append(n.pending, event)
	if len(n.pending) > maxPendingNotifications {
		n.pending = n.pending[len(n.pending)-maxPendingNotifications:]
	}
	n.mu.Unlock()

	if n.bus == nil {
		return
	}
	if err := n.bus.Publish(ctx, providers.GetWorkspaceChannel(n.sessionID), event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to publish notification")
	}
}

// Drain returns the pending notifications and forgets them
func (n *NotificationService) Drain() []*entities.WorkspaceEvent {
	if n == nil {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	return out
}
