package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/policy"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util/errorutil"
)

// CustomerService handles self-registration and profile maintenance.
type CustomerService struct {
	uow        repository.UnitOfWork
	dispatcher events.Dispatcher
	bcryptCost int
	logger     *zap.Logger
}

// CustomerDependencies bundles collaborators for the customer service.
type CustomerDependencies struct {
	UnitOfWork repository.UnitOfWork
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// RegisterCustomerInput is the self-registration payload.
type RegisterCustomerInput struct {
	Ship       string
	Supervisor string
	Contact    string
	Password   string
}

// UpdateCustomerInput carries optional profile changes. Contact cannot change.
type UpdateCustomerInput struct {
	Ship       *string
	Supervisor *string
}

// NewCustomerService constructs the service.
func NewCustomerService(cfg config.Config, deps CustomerDependencies) *CustomerService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		uow:        deps.UnitOfWork,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
	}
}

func duplicateContact() error {
	return apperrors.NewValidationError("validation failed", map[string]any{
		"contact": "a user with this contact already exists",
	})
}

// Register creates an inactive login and its customer profile. The contact doubles as the username.
func (s *CustomerService) Register(ctx context.Context, input RegisterCustomerInput) (*domain.Customer, error) {
	input.Contact = strings.TrimSpace(input.Contact)
	input.Ship = strings.TrimSpace(input.Ship)
	input.Supervisor = strings.TrimSpace(input.Supervisor)

	details := map[string]any{}
	requireText(details, "contact", input.Contact)
	requireText(details, "ship", input.Ship)
	requireText(details, "supervisor", input.Supervisor)
	if len(input.Password) > auth.MaxPasswordBytes {
		details["password"] = fmt.Sprintf("ensure this field has no more than %d bytes", auth.MaxPasswordBytes)
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	customer := &domain.Customer{
		Ship:       input.Ship,
		Supervisor: input.Supervisor,
		Contact:    input.Contact,
	}
	err = s.uow.InTx(ctx, func(store repository.Store) error {
		_, err := store.Users.GetByUsername(ctx, input.Contact)
		if err == nil {
			return duplicateContact()
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		user := &domain.User{
			Username:     input.Contact,
			PasswordHash: hash,
			IsActive:     false,
			Roles:        []domain.Role{domain.RoleCustomer},
		}
		if err := store.Users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return duplicateContact()
			}
			return err
		}

		customer.UserID = user.ID
		if err := store.Customers.Create(ctx, customer); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return duplicateContact()
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer registered", zap.String("customer_id", customer.ID), zap.String("contact", customer.Contact))
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:        events.EventCustomerRegistered,
		AggregateID: customer.ID,
		Payload: events.CustomerRegisteredPayload{
			UserID:  customer.UserID,
			Contact: customer.Contact,
			Ship:    customer.Ship,
		},
	})
	return customer, nil
}

// Get returns a customer profile visible to actor.
func (s *CustomerService) Get(ctx context.Context, actor Actor, id string) (*domain.Customer, error) {
	customer, err := s.load(ctx, s.uow.Store(), id)
	if err != nil {
		return nil, err
	}
	if !policy.Authorize(policy.ActionViewCustomer, actor.Caller, policy.Resource{OwnerUserID: customer.UserID}) {
		return nil, apperrors.NewForbidden("you do not have permission to view this customer")
	}
	return customer, nil
}

// Update changes ship and supervisor.
func (s *CustomerService) Update(ctx context.Context, actor Actor, id string, input UpdateCustomerInput) (*domain.Customer, error) {
	details := map[string]any{}
	if input.Ship != nil {
		requireText(details, "ship", *input.Ship)
	}
	if input.Supervisor != nil {
		requireText(details, "supervisor", *input.Supervisor)
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details)
	}

	var customer *domain.Customer
	err := s.uow.InTx(ctx, func(store repository.Store) error {
		found, err := s.load(ctx, store, id)
		if err != nil {
			return err
		}
		if !policy.Authorize(policy.ActionUpdateCustomer, actor.Caller, policy.Resource{OwnerUserID: found.UserID}) {
			return apperrors.NewForbidden("you do not have permission to modify this customer")
		}
		if input.Ship != nil {
			found.Ship = strings.TrimSpace(*input.Ship)
		}
		if input.Supervisor != nil {
			found.Supervisor = strings.TrimSpace(*input.Supervisor)
		}
		if err := store.Customers.Update(ctx, found); err != nil {
			return err
		}
		customer = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func requireText(details map[string]any, field, value string) {
	if strings.TrimSpace(value) == "" {
		details[field] = "this field may not be blank"
	}
}

func (s *CustomerService) load(ctx context.Context, store repository.Store, id string) (*domain.Customer, error) {
	customer, err := store.Customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"id": id})
		}
		return nil, err
	}
	return customer, nil
}
