package dto

import (
	"time"

	"github.com/spec-kit/order-service/internal/domain"
)

// RegisterCustomerRequest payload for self-registration. Contact doubles as the login name.
type RegisterCustomerRequest struct {
	Ship       string `json:"ship" validate:"required,max=255"`
	Supervisor string `json:"supervisor" validate:"required,max=255"`
	Contact    string `json:"contact" validate:"required,max=150"`
	Password   string `json:"password" validate:"required,max=72"`
}

// UpdateCustomerRequest payload for profile edits.
type UpdateCustomerRequest struct {
	Ship       *string `json:"ship" validate:"omitempty,min=1,max=255"`
	Supervisor *string `json:"supervisor" validate:"omitempty,min=1,max=255"`
}

// CustomerResponse never carries the password.
type CustomerResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Ship       string    `json:"ship"`
	Supervisor string    `json:"supervisor"`
	Contact    string    `json:"contact"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCustomerResponse maps a domain customer.
func NewCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Ship:       c.Ship,
		Supervisor: c.Supervisor,
		Contact:    c.Contact,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
