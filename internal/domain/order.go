package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderState enumerates lifecycle states for orders.
type OrderState string

const (
	OrderStateCreated    OrderState = "CREATED"
	OrderStateProcessing OrderState = "PROCESSING"
	OrderStateDelivered  OrderState = "DELIVERED"
	OrderStateCancelled  OrderState = "CANCELLED"
)

var (
	ErrUnknownOrderState      = errors.New("unknown order state")
	ErrInvalidOrderTransition = errors.New("invalid order state transition")
)

// Order is the aggregate for customer orders.
type Order struct {
	ID         string
	CustomerID string
	State      OrderState
	Comment    *string
	Total      decimal.Decimal
	CreatedOn  time.Time
	UpdatedAt  time.Time
	Items      []OrderItem
}

// TransitionHook runs after an order enters a state. actor is the acting username.
type TransitionHook func(order *Order, actor string)

var orderTransitions = map[OrderState][]OrderState{
	OrderStateCreated:    {OrderStateProcessing, OrderStateCancelled},
	OrderStateProcessing: {OrderStateDelivered, OrderStateCancelled},
	OrderStateDelivered:  {},
	OrderStateCancelled:  {},
}

var enterHooks = map[OrderState]TransitionHook{
	OrderStateCancelled: stampCancellation,
}

// Valid reports whether s is a known state.
func (s OrderState) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Terminal reports whether no further transitions leave s.
func (s OrderState) Terminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether next is reachable from s. Staying in place is always allowed.
func (s OrderState) CanTransitionTo(next OrderState) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, candidate := range orderTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Transition moves the order into next and runs the enter hook of next.
// It reports whether the state actually changed.
func (o *Order) Transition(next OrderState, actor string) (bool, error) {
	if !next.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownOrderState, next)
	}
	if !o.State.CanTransitionTo(next) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidOrderTransition, o.State, next)
	}
	if o.State == next {
		return false, nil
	}
	o.State = next
	if hook, ok := enterHooks[next]; ok {
		hook(o, actor)
	}
	return true, nil
}

// AcceptsItems reports whether lines may still be added to the order.
func (o *Order) AcceptsItems() bool {
	return !o.State.Terminal()
}

// RecomputeTotal sets Total to the sum of the item prices.
func (o *Order) RecomputeTotal() {
	o.Total = SumPrices(o.Items)
}

// CancellationComment is the audit note written when actor cancels an order.
func CancellationComment(actor string) string {
	return fmt.Sprintf("Order cancelled by %s", actor)
}

func stampCancellation(order *Order, actor string) {
	comment := CancellationComment(actor)
	order.Comment = &comment
}
