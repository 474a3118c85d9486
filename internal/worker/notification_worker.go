// Package worker moves event delivery off the request path.
package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/service"
)

const defaultQueueSize = 256

// NotificationWorker is an events.Dispatcher that queues published events and
// hands them to the wrapped dispatcher from Run.
type NotificationWorker struct {
	inner  events.Dispatcher
	queue  chan events.Event
	logger *zap.Logger

	mu      sync.RWMutex
	stopped bool
}

// NewNotificationWorker wraps inner with a buffered queue.
func NewNotificationWorker(inner events.Dispatcher, queueSize int, logger *zap.Logger) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		inner:  inner,
		queue:  make(chan events.Event, queueSize),
		logger: logger,
	}
}

// Publish enqueues the event. A full queue, or a worker that has stopped,
// falls back to inline delivery.
func (w *NotificationWorker) Publish(ctx context.Context, event events.Event) error {
	w.mu.RLock()
	if !w.stopped {
		select {
		case w.queue <- event:
			w.mu.RUnlock()
			return nil
		default:
			w.logger.Warn("notification queue full; delivering inline", zap.String("event_type", string(event.Type)))
		}
	}
	w.mu.RUnlock()
	return w.inner.Publish(context.WithoutCancel(ctx), event)
}

// Subscribe registers handler on the wrapped dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Run delivers queued events until ctx is cancelled, then drains what is left.
func (w *NotificationWorker) Run(ctx context.Context) error {
	w.logger.Info("notification worker started")
	for {
		select {
		case event := <-w.queue:
			_ = w.inner.Publish(ctx, event)
		case <-ctx.Done():
			w.mu.Lock()
			w.stopped = true
			w.mu.Unlock()
			drained := w.drain()
			w.logger.Info("notification worker stopped", zap.Int("drained", drained))
			return nil
		}
	}
}

func (w *NotificationWorker) drain() int {
	n := 0
	for {
		select {
		case event := <-w.queue:
			_ = w.inner.Publish(context.Background(), event)
			n++
		default:
			return n
		}
	}
}

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

var _ events.Dispatcher = (*NotificationWorker)(nil)
