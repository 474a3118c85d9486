package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/order-service/internal/events"
)

type recorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, e.AggregateID)
	return nil
}

func (r *recorder) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

func TestNotificationWorkerDeliversQueuedEvents(t *testing.T) {
	rec := &recorder{}
	w := NewNotificationWorker(events.NewInMemoryDispatcher(nil), 4, nil)
	w.Subscribe(events.EventOrderCreated, rec.handle)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventOrderCreated, AggregateID: "o1"}))
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventOrderCreated, AggregateID: "o2"}))

	assert.Eventually(t, func() bool { return len(rec.ids()) == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"o1", "o2"}, rec.ids())

	cancel()
	require.NoError(t, <-done)
}

func TestNotificationWorkerDrainsOnShutdown(t *testing.T) {
	rec := &recorder{}
	w := NewNotificationWorker(events.NewInMemoryDispatcher(nil), 4, nil)
	w.Subscribe(events.EventOrderStateChanged, rec.handle)

	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventOrderStateChanged, AggregateID: "o1"}))
	assert.Empty(t, rec.ids())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))

	assert.Equal(t, []string{"o1"}, rec.ids())
}

func TestNotificationWorkerFullQueueDeliversInline(t *testing.T) {
	rec := &recorder{}
	w := NewNotificationWorker(events.NewInMemoryDispatcher(nil), 1, nil)
	w.Subscribe(events.EventOrderItemAdded, rec.handle)

	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventOrderItemAdded, AggregateID: "queued"}))
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventOrderItemAdded, AggregateID: "inline"}))

	assert.Equal(t, []string{"inline"}, rec.ids())
}

func TestNotificationWorkerDeliversInlineAfterStop(t *testing.T) {
	rec := &recorder{}
	w := NewNotificationWorker(events.NewInMemoryDispatcher(nil), 4, nil)
	w.Subscribe(events.EventOrderCreated, rec.handle)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))

	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventOrderCreated, AggregateID: "late"}))

	assert.Equal(t, []string{"late"}, rec.ids())
	assert.Empty(t, w.queue)
}
