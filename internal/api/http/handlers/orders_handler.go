package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/dto"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/service"
)

// OrdersHandler exposes order endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

type orderLister func(context.Context, service.Actor, service.OrderListFilter) ([]domain.Order, error)

func toLineInput(req dto.OrderLineRequest) service.OrderLineInput {
	return service.OrderLineInput{
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     domain.Unit(req.Unit),
	}
}

// Create handles POST /order.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateOrderRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	input := service.CreateOrderInput{Comment: req.Comment}
	for _, line := range req.Items {
		input.Items = append(input.Items, toLineInput(line))
	}
	order, err := h.orders.Create(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewOrderResponse(order))
}

// List handles GET /order.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	return h.list(c, h.orders.List)
}

// ListAll handles GET /order/all.
func (h *OrdersHandler) ListAll(c *fiber.Ctx) error {
	return h.list(c, h.orders.ListAll)
}

func (h *OrdersHandler) list(c *fiber.Ctx, fetch orderLister) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	p, err := parsePage(c)
	if err != nil {
		return err
	}
	states, err := parseStates(c)
	if err != nil {
		return err
	}

	orders, err := fetch(c.UserContext(), actor, service.OrderListFilter{
		States: states,
		Limit:  p.limit(),
		Offset: p.offset(),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.NewOrderListResponse(orders),
		"meta": listMeta(p, len(orders)),
	})
}

// Get handles GET /order/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOrderResponse(order))
}

// Update handles PATCH /order/:id.
func (h *OrdersHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateOrderRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	input := service.UpdateOrderInput{Comment: req.Comment}
	if req.State != nil {
		state := domain.OrderState(*req.State)
		input.State = &state
	}
	order, err := h.orders.Update(c.UserContext(), actor, c.Params("id"), input)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOrderResponse(order))
}

// AddItem handles POST /order/:id/add_item.
func (h *OrdersHandler) AddItem(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.OrderLineRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	item, err := h.orders.AddItem(c.UserContext(), actor, c.Params("id"), toLineInput(req))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOrderItemResponse(item))
}

// History handles GET /order/:id/history.
func (h *OrdersHandler) History(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	entries, err := h.orders.History(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewOrderHistoryResponse(entries))
}

// Receipt handles GET /order/:id/receipt.
func (h *OrdersHandler) Receipt(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	pdf, err := h.orders.Receipt(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="order_`+c.Params("id")+`.pdf"`)
	return c.Status(http.StatusOK).Send(pdf)
}
