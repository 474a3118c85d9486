package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/policy"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util/errorutil"
)

// CatalogService exposes the item catalog to administrators.
type CatalogService struct {
	uow repository.UnitOfWork
}

// UpdateItemInput carries optional catalog changes.
type UpdateItemInput struct {
	Name         *string
	DefaultPrice *decimal.Decimal
}

// NewCatalogService constructs the service.
func NewCatalogService(uow repository.UnitOfWork) *CatalogService {
	return &CatalogService{uow: uow}
}

func (s *CatalogService) authorize(actor Actor, action policy.Action) error {
	if !policy.Authorize(action, actor.Caller, policy.Resource{}) {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// List returns catalog items ordered by name.
func (s *CatalogService) List(ctx context.Context, actor Actor, limit, offset int) ([]domain.Item, error) {
	if err := s.authorize(actor, policy.ActionViewCatalog); err != nil {
		return nil, err
	}
	return s.uow.Store().Items.List(ctx, limit, offset)
}

// Get returns one catalog item.
func (s *CatalogService) Get(ctx context.Context, actor Actor, id string) (*domain.Item, error) {
	if err := s.authorize(actor, policy.ActionViewCatalog); err != nil {
		return nil, err
	}
	return loadItem(ctx, s.uow.Store(), id)
}

// Update renames an item or changes its default price. Renaming onto another item's
// normalized name is rejected.
func (s *CatalogService) Update(ctx context.Context, actor Actor, id string, input UpdateItemInput) (*domain.Item, error) {
	if err := s.authorize(actor, policy.ActionManageCatalog); err != nil {
		return nil, err
	}

	details := map[string]any{}
	if input.Name != nil && domain.NormalizeItemName(*input.Name) == "" {
		details["name"] = "this field may not be blank"
	}
	if input.DefaultPrice != nil {
		if input.DefaultPrice.IsNegative() {
			details["default_price"] = "ensure this value is greater than or equal to 0"
		} else if msg := domain.CheckDecimal(*input.DefaultPrice, domain.PriceDigits, domain.PriceScale); msg != "" {
			details["default_price"] = msg
		}
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details)
	}

	var item *domain.Item
	err := s.uow.InTx(ctx, func(store repository.Store) error {
		found, err := loadItem(ctx, store, id)
		if err != nil {
			return err
		}
		if input.Name != nil {
			found.Name = domain.CleanItemName(*input.Name)
		}
		if input.DefaultPrice != nil {
			found.DefaultPrice = *input.DefaultPrice
		}
		if err := store.Items.Update(ctx, found); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.NewFieldError("name", "an item with this name already exists")
			}
			return err
		}
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func loadItem(ctx context.Context, store repository.Store, id string) (*domain.Item, error) {
	item, err := store.Items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("item", map[string]any{"id": id})
		}
		return nil, err
	}
	return item, nil
}
