package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/dto"
	"github.com/spec-kit/order-service/internal/service"
)

// CustomersHandler exposes registration and profile endpoints.
type CustomersHandler struct {
	customers *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customers *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{customers: customers}
}

// Register handles POST /customer.
func (h *CustomersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterCustomerRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	customer, err := h.customers.Register(c.UserContext(), service.RegisterCustomerInput{
		Ship:       req.Ship,
		Supervisor: req.Supervisor,
		Contact:    req.Contact,
		Password:   req.Password,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewCustomerResponse(customer))
}

// Get handles GET /customer/:id.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	customer, err := h.customers.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewCustomerResponse(customer))
}

// Update handles PATCH /customer/:id.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCustomerRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	customer, err := h.customers.Update(c.UserContext(), actor, c.Params("id"), service.UpdateCustomerInput{
		Ship:       req.Ship,
		Supervisor: req.Supervisor,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewCustomerResponse(customer))
}
