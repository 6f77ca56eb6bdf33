package feed

import (
	"sync"

	"github.com/medilink-hms/client/internal/config"
	"github.com/medilink-hms/client/internal/domain"
)

// Feed is the in-memory log of received notifications, newest first, plus the
// derived unread count. It is sourced from the live channel only and is lost
// on restart.
type Feed struct {
	mu     sync.Mutex
	events []domain.NotificationEvent
	unread int
	cap    int
}

// New creates a feed. A cap of 0 keeps every event for the session lifetime.
func New(cfg config.FeedConfig) *Feed {
	return &Feed{cap: cfg.Cap}
}

// Append prepends the event and increments the unread counter. When the cap
// is exceeded the oldest entries are evicted; the unread counter is not
// adjusted by eviction.
func (f *Feed) Append(event domain.NotificationEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append([]domain.NotificationEvent{event}, f.events...)
	if f.cap > 0 && len(f.events) > f.cap {
		f.events = f.events[:f.cap]
	}
	f.unread++
}

// Events returns the notifications, most recent first.
func (f *Feed) Events() []domain.NotificationEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.NotificationEvent(nil), f.events...)
}

// Unread returns how many events arrived since the last ClearUnread.
func (f *Feed) Unread() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread
}

// ClearUnread zeroes the counter without touching the list. Called when the
// user opens the notification tray; never triggered by time or new events.
func (f *Feed) ClearUnread() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unread = 0
}

// Len returns the number of retained events.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}
