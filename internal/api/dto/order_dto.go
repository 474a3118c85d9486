package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/order-service/internal/domain"
)

// OrderLineRequest describes one requested item. Price is not accepted.
type OrderLineRequest struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit     string          `json:"unit" validate:"required,oneof=u dozen g kg lts m cm"`
}

// CreateOrderRequest payload for POST /order. State is accepted for compatibility and ignored.
type CreateOrderRequest struct {
	State   *string            `json:"state"`
	Comment *string            `json:"comment" validate:"omitempty,max=2000"`
	Items   []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderRequest payload for PATCH /order/:id.
type UpdateOrderRequest struct {
	State   *string `json:"state" validate:"omitempty,oneof=CREATED PROCESSING DELIVERED CANCELLED"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// UpdateOrderItemRequest payload for PATCH /orderitem/:id.
type UpdateOrderItemRequest struct {
	Quantity *decimal.Decimal `json:"quantity" validate:"omitempty,gt=0"`
	Unit     *string          `json:"unit" validate:"omitempty,oneof=u dozen g kg lts m cm"`
	Price    *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
}

// OrderItemResponse describes one line item.
type OrderItemResponse struct {
	ID        string           `json:"id"`
	OrderID   string           `json:"order_id"`
	ItemID    string           `json:"item_id"`
	Name      string           `json:"name"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Unit      domain.Unit      `json:"unit"`
	UnitLabel string           `json:"unit_label"`
	Price     *decimal.Decimal `json:"price"`
	Total     *decimal.Decimal `json:"total"`
}

// OrderResponse describes an order. Items are omitted in list views.
type OrderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customer_id"`
	State      domain.OrderState   `json:"state"`
	Comment    *string             `json:"comment"`
	Total      decimal.Decimal     `json:"total"`
	CreatedOn  time.Time           `json:"created_on"`
	UpdatedAt  time.Time           `json:"updated_at"`
	Items      []OrderItemResponse `json:"items,omitempty"`
}

// OrderHistoryResponse describes one recorded transition.
type OrderHistoryResponse struct {
	ID          string            `json:"id"`
	ActorUserID *string           `json:"actor_user_id"`
	ActorName   string            `json:"actor_name"`
	FromState   domain.OrderState `json:"from_state"`
	ToState     domain.OrderState `json:"to_state"`
	Comment     *string           `json:"comment"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewOrderItemResponse maps a line item.
func NewOrderItemResponse(item *domain.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:        item.ID,
		OrderID:   item.OrderID,
		ItemID:    item.ItemID,
		Name:      item.ItemName,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		UnitLabel: item.Unit.Label(),
		Price:     item.Price,
		Total:     item.LineTotal(),
	}
}

// NewOrderResponse maps an order and any loaded items.
func NewOrderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		State:      order.State,
		Comment:    order.Comment,
		Total:      order.Total,
		CreatedOn:  order.CreatedOn,
		UpdatedAt:  order.UpdatedAt,
	}
	for i := range order.Items {
		resp.Items = append(resp.Items, NewOrderItemResponse(&order.Items[i]))
	}
	return resp
}

// NewOrderListResponse maps orders without items.
func NewOrderListResponse(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}

// NewOrderHistoryResponse maps history entries.
func NewOrderHistoryResponse(entries []domain.OrderHistory) []OrderHistoryResponse {
	out := make([]OrderHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, OrderHistoryResponse{
			ID:          e.ID,
			ActorUserID: e.ActorUserID,
			ActorName:   e.ActorName,
			FromState:   e.FromState,
			ToState:     e.ToState,
			Comment:     e.Comment,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}
