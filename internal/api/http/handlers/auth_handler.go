package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/dto"
	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/service"
)

// AuthHandler exposes the token endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// ObtainToken handles POST /auth-token.
func (h *AuthHandler) ObtainToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	token, err := h.auth.ObtainToken(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewTokenResponse(token))
}

// RevokeToken handles DELETE /auth-token.
func (h *AuthHandler) RevokeToken(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	if err := h.auth.Revoke(c.UserContext(), principal.Claims); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
