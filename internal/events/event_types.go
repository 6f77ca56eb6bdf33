package events

import (
	"time"

	"github.com/medilink-hms/client/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionAuthenticated EventType = "session_authenticated"
	EventSessionCleared       EventType = "session_cleared"
	EventIdentityRefreshed    EventType = "identity_refreshed"
	EventNotificationReceived EventType = "notification_received"
)

// Event represents a state change emitted by the session store or the
// realtime channel.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SessionPayload accompanies session lifecycle events. Identity is nil for
// EventSessionCleared.
type SessionPayload struct {
	Identity *domain.Profile     `json:"identity,omitempty"`
	Role     domain.Role         `json:"role,omitempty"`
	Phase    domain.RestorePhase `json:"phase,omitempty"`
}

// NotificationPayload accompanies EventNotificationReceived.
type NotificationPayload struct {
	Notification domain.NotificationEvent `json:"notification"`
}
