package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medilink-hms/client/internal/config"
)

// Toast is one transient notice currently on screen.
type Toast struct {
	ID      string
	Content string
	ShownAt time.Time
}

// Toaster manages transient notices: each one auto-dismisses after the
// configured interval and can be dismissed early by the user.
type Toaster struct {
	mu     sync.Mutex
	active []Toast
	timers map[string]*time.Timer
	ttl    time.Duration
}

// NewToaster builds a toaster with the configured auto-dismiss interval.
func NewToaster(cfg config.ToastConfig) *Toaster {
	return &Toaster{
		timers: make(map[string]*time.Timer),
		ttl:    cfg.TTL(),
	}
}

// Show surfaces a toast and schedules its auto-dismiss. Returns the toast id
// for early dismissal.
func (t *Toaster) Show(content string) string {
	id := uuid.NewString()

	t.mu.Lock()
	t.active = append(t.active, Toast{ID: id, Content: content, ShownAt: time.Now()})
	t.timers[id] = time.AfterFunc(t.ttl, func() { t.Dismiss(id) })
	t.mu.Unlock()

	return id
}

// Dismiss removes a toast before its interval elapses. Unknown ids are
// ignored, so a race between user dismissal and the timer is harmless.
func (t *Toaster) Dismiss(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[id]; ok {
		timer.Stop()
		delete(t.timers, id)
	}
	for i, toast := range t.active {
		if toast.ID == id {
			t.active = append(t.active[:i], t.active[i+1:]...)
			break
		}
	}
}

// Active returns the visible toasts in display order.
func (t *Toaster) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Toast(nil), t.active...)
}

// Close stops all pending timers. Called on shutdown.
func (t *Toaster) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
	t.active = nil
}
