package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/order-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCustomerRegistered EventType = "customer_registered"
	EventOrderCreated       EventType = "order_created"
	EventOrderStateChanged  EventType = "order_state_changed"
	EventOrderItemAdded     EventType = "order_item_added"
	EventOrderItemUpdated   EventType = "order_item_updated"
	EventOrderItemDeleted   EventType = "order_item_deleted"
)

// Actor identifies who caused an event. UserID is empty for anonymous registration.
type Actor struct {
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	AggregateID string    `json:"aggregate_id"`
	Actor       Actor     `json:"actor"`
	Timestamp   time.Time `json:"timestamp"`
	Payload     any       `json:"payload"`
}

// CustomerRegisteredPayload payload.
type CustomerRegisteredPayload struct {
	UserID  string `json:"user_id"`
	Contact string `json:"contact"`
	Ship    string `json:"ship"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	CustomerID string `json:"customer_id"`
	ItemCount  int    `json:"item_count"`
	NewItems   int    `json:"new_catalog_items"`
}

// OrderStateChangedPayload payload.
type OrderStateChangedPayload struct {
	OldState domain.OrderState `json:"old_state"`
	NewState domain.OrderState `json:"new_state"`
	Comment  string            `json:"comment,omitempty"`
}

// OrderItemPayload is shared by item added, updated and deleted events.
type OrderItemPayload struct {
	OrderItemID string          `json:"order_item_id"`
	ItemName    string          `json:"item_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        domain.Unit     `json:"unit"`
	OrderTotal  decimal.Decimal `json:"order_total"`
}
