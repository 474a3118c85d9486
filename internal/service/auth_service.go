package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/policy"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util/errorutil"
)

// AuthService issues and revokes tokens and manages account activation.
type AuthService struct {
	uow         repository.UnitOfWork
	tokenMgr    *auth.TokenManager
	revocations auth.RevocationStore
	bcryptCost  int
	logger      *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UnitOfWork  repository.UnitOfWork
	Revocations auth.RevocationStore
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		uow:         deps.UnitOfWork,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		revocations: deps.Revocations,
		bcryptCost:  cfg.Auth.BcryptCost,
		logger:      logger,
	}
}

// ObtainToken exchanges credentials for an access token.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) ObtainToken(ctx context.Context, username, password string) (*domain.Token, error) {
	store := s.uow.Store()
	user, err := store.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	if !user.IsActive {
		return nil, apperrors.NewAccountInactive()
	}

	value, claims, err := s.tokenMgr.GenerateToken(user.ID, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	token := &domain.Token{
		Value:     value,
		ID:        claims.ID,
		UserID:    user.ID,
		Roles:     user.Roles,
		ExpiresAt: claims.ExpiresAtTime(),
		IssuedAt:  claims.IssuedAt.Time,
	}
	customer, err := store.Customers.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		token.CustomerID = &customer.ID
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, err
	}

	s.logger.Info("token issued", zap.String("user_id", user.ID), zap.String("jti", claims.ID))
	return token, nil
}

// Revoke invalidates the presented token until its natural expiry.
func (s *AuthService) Revoke(ctx context.Context, claims *auth.Claims) error {
	if s.revocations == nil || claims == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAtTime())
	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info("token revoked", zap.String("user_id", claims.UserID), zap.String("jti", claims.ID))
	return nil
}

// SetActive flips the activation flag of a user account. Admin only.
func (s *AuthService) SetActive(ctx context.Context, actor Actor, userID string, active bool) (*domain.User, error) {
	if !policy.Authorize(policy.ActionManageUsers, actor.Caller, policy.Resource{}) {
		return nil, apperrors.NewForbidden("admin role required")
	}

	var user *domain.User
	err := s.uow.InTx(ctx, func(store repository.Store) error {
		found, err := store.Users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("user", map[string]any{"id": userID})
			}
			return err
		}
		if found.IsActive == active {
			user = found
			return nil
		}
		found.IsActive = active
		if err := store.Users.Update(ctx, found); err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user activation changed",
		zap.String("user_id", user.ID),
		zap.Bool("active", active),
		zap.String("by", actor.Username))
	return user, nil
}

// BootstrapAdmin ensures an active admin account named username exists.
// An existing account is promoted and activated; its password is left untouched.
func (s *AuthService) BootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	created := false
	err = s.uow.InTx(ctx, func(store repository.Store) error {
		user, err := store.Users.GetByUsername(ctx, username)
		if errors.Is(err, pgx.ErrNoRows) {
			created = true
			return store.Users.Create(ctx, &domain.User{
				Username:     username,
				PasswordHash: hash,
				IsActive:     true,
				Roles:        []domain.Role{domain.RoleAdmin},
			})
		}
		if err != nil {
			return err
		}
		if !user.IsActive {
			user.IsActive = true
			if err := store.Users.Update(ctx, user); err != nil {
				return err
			}
		}
		return store.Users.AddRole(ctx, user.ID, domain.RoleAdmin)
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("admin account ensured", zap.String("username", username), zap.Bool("created", created))
	return created, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
