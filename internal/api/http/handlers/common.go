package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/service"
	apperrors "github.com/spec-kit/order-service/pkg/util/errorutil"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func actorFrom(c *fiber.Ctx) (service.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return service.Actor{}, fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	return service.Actor{Caller: principal.Caller(), Username: principal.User.Username}, nil
}

func data(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}

type page struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

func (p page) limit() int  { return p.PageSize }
func (p page) offset() int { return (p.Page - 1) * p.PageSize }

func parsePage(c *fiber.Ctx) (page, error) {
	p := page{Page: 1, PageSize: defaultPageSize}
	details := map[string]any{}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			details["page"] = "must be a positive integer"
		} else {
			p.Page = n
		}
	}
	if raw := c.Query("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPageSize {
			details["page_size"] = "must be between 1 and 100"
		} else {
			p.PageSize = n
		}
	}
	if len(details) > 0 {
		return p, apperrors.NewValidationError("invalid pagination", details)
	}
	return p, nil
}

func parseStates(c *fiber.Ctx) ([]domain.OrderState, error) {
	raw := strings.TrimSpace(c.Query("state"))
	if raw == "" {
		return nil, nil
	}
	var states []domain.OrderState
	for _, part := range strings.Split(raw, ",") {
		state := domain.OrderState(strings.ToUpper(strings.TrimSpace(part)))
		if !state.Valid() {
			return nil, apperrors.NewFieldError("state", "unknown order state "+strconv.Quote(part))
		}
		states = append(states, state)
	}
	return states, nil
}

func listMeta(p page, n int) fiber.Map {
	return fiber.Map{"page": p.Page, "page_size": p.PageSize, "count": n}
}
