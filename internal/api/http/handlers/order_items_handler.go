package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/dto"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/service"
)

// OrderItemsHandler exposes line item endpoints.
type OrderItemsHandler struct {
	orders *service.OrderService
}

// NewOrderItemsHandler constructs handler.
func NewOrderItemsHandler(orders *service.OrderService) *OrderItemsHandler {
	return &OrderItemsHandler{orders: orders}
}

// Get handles GET /orderitem/:id.
func (h *OrderItemsHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	item, err := h.orders.GetItem(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOrderItemResponse(item))
}

// Update handles PATCH /orderitem/:id.
func (h *OrderItemsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateOrderItemRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	input := service.UpdateOrderItemInput{Quantity: req.Quantity, Price: req.Price}
	if req.Unit != nil {
		unit := domain.Unit(*req.Unit)
		input.Unit = &unit
	}
	item, err := h.orders.UpdateItem(c.UserContext(), actor, c.Params("id"), input)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOrderItemResponse(item))
}

// Delete handles DELETE /orderitem/:id.
func (h *OrderItemsHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.orders.DeleteItem(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
