package domain

import "time"

// OrderHistory is an immutable audit entry for a state transition.
type OrderHistory struct {
	ID          string
	OrderID     string
	ActorUserID *string
	ActorName   string
	FromState   OrderState
	ToState     OrderState
	Comment     *string
	CreatedAt   time.Time
}
