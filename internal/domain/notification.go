package domain

import "time"

// NotificationEvent is one server-pushed notification as received over the
// realtime channel.
type NotificationEvent struct {
	Content    string    `json:"content"`
	ReceivedAt time.Time `json:"received_at"`
}
