package entities

import (
	"time"

	"github.com/google/uuid"
)

// WorkspaceEventType represents the type of event streamed to a session
type WorkspaceEventType string

const (
	WorkspaceEventInvalidation WorkspaceEventType = "invalidation"
	WorkspaceEventNotification WorkspaceEventType = "notification"
)

// NotificationLevel is the severity of a user-facing notification
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
	NotificationInfo    NotificationLevel = "info"
)

// WorkspaceEvent is a real-time event for every open page of a session:
// either a set of invalidated query keys or a toast notification.
type WorkspaceEvent struct {
	ID        string             `json:"id"`
	SessionID string             `json:"session_id"`
	EventType WorkspaceEventType `json:"event_type"`
	Timestamp time.Time          `json:"timestamp"`
	Keys      []string           `json:"keys,omitempty"`
	Level     NotificationLevel  `json:"level,omitempty"`
	Message   string             `json:"message,omitempty"`
}

// NewInvalidationEvent creates an event announcing invalidated query keys
func NewInvalidationEvent(sessionID string, keys []string) *WorkspaceEvent {
	return &WorkspaceEvent{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		EventType: WorkspaceEventInvalidation,
		Timestamp: time.Now(),
		Keys:      keys,
	}
}

// NewNotificationEvent creates a toast notification event
func NewNotificationEvent(sessionID string, level NotificationLevel, message string) *WorkspaceEvent {
	return &WorkspaceEvent{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		EventType: WorkspaceEventNotification,
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	}
}
