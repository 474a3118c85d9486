package dto

import (
	"time"

	"github.com/spec-kit/order-service/internal/domain"
)

// TokenRequest payload for POST /auth-token.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse standard response for the token endpoint.
type TokenResponse struct {
	Token      string        `json:"token"`
	ExpiresAt  time.Time     `json:"expires_at"`
	UserID     string        `json:"user_id"`
	CustomerID *string       `json:"customer_id"`
	Roles      []domain.Role `json:"roles"`
}

// NewTokenResponse maps an issued token.
func NewTokenResponse(t *domain.Token) TokenResponse {
	roles := t.Roles
	if roles == nil {
		roles = []domain.Role{}
	}
	return TokenResponse{
		Token:      t.Value,
		ExpiresAt:  t.ExpiresAt,
		UserID:     t.UserID,
		CustomerID: t.CustomerID,
		Roles:      roles,
	}
}

// UserResponse describes an account for admin endpoints.
type UserResponse struct {
	ID       string        `json:"id"`
	Username string        `json:"username"`
	IsActive bool          `json:"is_active"`
	Roles    []domain.Role `json:"roles"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []domain.Role{}
	}
	return UserResponse{ID: u.ID, Username: u.Username, IsActive: u.IsActive, Roles: roles}
}
