package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/medilink-hms/client/internal/events"
	"github.com/medilink-hms/client/internal/feed"
	"github.com/medilink-hms/client/internal/toast"
)

// NotificationWorker routes pushed notification events into the feed and the
// toaster. It is the single wiring point between transport and presentation.
type NotificationWorker struct {
	dispatcher events.Dispatcher
	feed       *feed.Feed
	toaster    *toast.Toaster
	logger     *zap.Logger
}

// NewNotificationWorker creates the worker.
func NewNotificationWorker(dispatcher events.Dispatcher, notifications *feed.Feed, toaster *toast.Toaster, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		dispatcher: dispatcher,
		feed:       notifications,
		toaster:    toaster,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to notification events.
func (w *NotificationWorker) RegisterHandlers() {
	if w.dispatcher == nil {
		return
	}
	w.dispatcher.Subscribe(events.EventNotificationReceived, w.handleNotification)
}

func (w *NotificationWorker) handleNotification(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.NotificationPayload)
	if !ok {
		return nil
	}

	w.feed.Append(payload.Notification)
	if w.toaster != nil {
		w.toaster.Show(payload.Notification.Content)
	}
	w.logger.Info("notification received",
		zap.String("content", payload.Notification.Content),
		zap.Int("unread", w.feed.Unread()))
	return nil
}
