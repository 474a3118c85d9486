package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/policy"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
// Customer is nil for accounts without a customer profile, such as a bootstrapped admin.
type Principal struct {
	User     *domain.User
	Customer *domain.Customer
	Claims   *Claims
}

// IsAdmin reports whether the caller holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.User.IsAdmin()
}

// Caller projects the principal onto the access policy's view of a caller.
func (p *Principal) Caller() policy.Caller {
	if p == nil || p.User == nil {
		return policy.Caller{}
	}
	caller := policy.Caller{UserID: p.User.ID, Roles: p.User.Roles}
	if p.Customer != nil {
		caller.CustomerID = p.Customer.ID
	}
	return caller
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens      *TokenManager
	revocations RevocationStore
	users       repository.UserRepository
	customers   repository.CustomerRepository
}

// NewAuthMiddleware constructs middleware. revocations may be nil.
func NewAuthMiddleware(tokens *TokenManager, revocations RevocationStore, users repository.UserRepository, customers repository.CustomerRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, revocations: revocations, users: users, customers: customers}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	tokenStr, err := BearerToken(c)
	if err != nil {
		return err
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	ctx := c.UserContext()
	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if revoked {
			return apperrors.NewUnauthorized("token revoked")
		}
	}

	user, err := m.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if !user.IsActive {
		return apperrors.NewUnauthorized("user account is not active")
	}

	principal := &Principal{User: user, Claims: claims}
	customer, err := m.customers.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		principal.Customer = customer
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
