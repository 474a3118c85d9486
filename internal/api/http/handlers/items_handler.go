package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/dto"
	"github.com/spec-kit/order-service/internal/service"
)

// ItemsHandler exposes the catalog to administrators.
type ItemsHandler struct {
	catalog *service.CatalogService
}

// NewItemsHandler constructs handler.
func NewItemsHandler(catalog *service.CatalogService) *ItemsHandler {
	return &ItemsHandler{catalog: catalog}
}

// List handles GET /item.
func (h *ItemsHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	p, err := parsePage(c)
	if err != nil {
		return err
	}
	items, err := h.catalog.List(c.UserContext(), actor, p.limit(), p.offset())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.NewItemListResponse(items),
		"meta": listMeta(p, len(items)),
	})
}

// Get handles GET /item/:id.
func (h *ItemsHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	item, err := h.catalog.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewItemResponse(item))
}

// Update handles PATCH /item/:id.
func (h *ItemsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateItemRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	item, err := h.catalog.Update(c.UserContext(), actor, c.Params("id"), service.UpdateItemInput{
		Name:         req.Name,
		DefaultPrice: req.DefaultPrice,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewItemResponse(item))
}
