package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/policy"
)

// Actor is the authenticated caller as seen by services.
type Actor struct {
	Caller   policy.Caller
	Username string
}

func (a Actor) eventActor() events.Actor {
	return events.Actor{UserID: a.Caller.UserID, Username: a.Username}
}

func (a Actor) userIDRef() *string {
	if a.Caller.UserID == "" {
		return nil
	}
	id := a.Caller.UserID
	return &id
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}
