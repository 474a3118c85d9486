package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/order-service/internal/domain"
)

// UpdateItemRequest payload for PATCH /item/:id.
type UpdateItemRequest struct {
	Name         *string          `json:"name" validate:"omitempty,max=255"`
	DefaultPrice *decimal.Decimal `json:"default_price" validate:"omitempty,gte=0"`
}

// ItemResponse describes a catalog item.
type ItemResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DefaultPrice decimal.Decimal `json:"default_price"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewItemResponse maps a catalog item.
func NewItemResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		DefaultPrice: item.DefaultPrice,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// NewItemListResponse maps catalog items.
func NewItemListResponse(items []domain.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewItemResponse(&items[i]))
	}
	return out
}
