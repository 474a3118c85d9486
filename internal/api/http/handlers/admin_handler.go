package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/dto"
	"github.com/spec-kit/order-service/internal/service"
)

// AdminHandler exposes account management for administrators.
type AdminHandler struct {
	auth *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService) *AdminHandler {
	return &AdminHandler{auth: authService}
}

// Activate handles POST /admin/users/:id/activate.
func (h *AdminHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

// Deactivate handles POST /admin/users/:id/deactivate.
func (h *AdminHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *AdminHandler) setActive(c *fiber.Ctx, active bool) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	user, err := h.auth.SetActive(c.UserContext(), actor, c.Params("id"), active)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}
