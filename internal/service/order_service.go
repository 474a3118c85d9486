package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/policy"
	"github.com/spec-kit/order-service/internal/receipt"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util/errorutil"
)

// OrderService coordinates the order lifecycle and its line items.
type OrderService struct {
	uow        repository.UnitOfWork
	dispatcher events.Dispatcher
	renderer   receipt.Renderer
	logger     *zap.Logger
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	UnitOfWork repository.UnitOfWork
	Dispatcher events.Dispatcher
	Renderer   receipt.Renderer
	Logger     *zap.Logger
}

// OrderLineInput describes one requested line item. Price is never accepted here.
type OrderLineInput struct {
	Name     string
	Quantity decimal.Decimal
	Unit     domain.Unit
}

// CreateOrderInput is the order creation payload. Any client-supplied state is dropped
// before it reaches the service.
type CreateOrderInput struct {
	Comment *string
	Items   []OrderLineInput
}

// UpdateOrderInput carries an optional state change and comment.
type UpdateOrderInput struct {
	State   *domain.OrderState
	Comment *string
}

// UpdateOrderItemInput carries optional line item changes. Price requires the admin role.
type UpdateOrderItemInput struct {
	Quantity *decimal.Decimal
	Unit     *domain.Unit
	Price    *decimal.Decimal
}

// OrderListFilter narrows order listings.
type OrderListFilter struct {
	States []domain.OrderState
	Limit  int
	Offset int
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		uow:        deps.UnitOfWork,
		dispatcher: deps.Dispatcher,
		renderer:   deps.Renderer,
		logger:     logger,
	}
}

// Create places an order for the actor's customer profile. The order always starts CREATED.
func (s *OrderService) Create(ctx context.Context, actor Actor, input CreateOrderInput) (*domain.Order, error) {
	if !policy.Authorize(policy.ActionCreateOrder, actor.Caller, policy.Resource{}) {
		return nil, apperrors.NewForbidden("only customers can place orders")
	}
	if len(input.Items) == 0 {
		return nil, apperrors.NewFieldError("items", "an order needs at least one item")
	}
	details := map[string]any{}
	for i, line := range input.Items {
		validateLine(details, fmt.Sprintf("items[%d].", i), line)
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details)
	}

	order := &domain.Order{
		CustomerID: actor.Caller.CustomerID,
		State:      domain.OrderStateCreated,
		Comment:    input.Comment,
		Total:      decimal.Zero,
	}
	newItems := 0
	err := s.uow.InTx(ctx, func(store repository.Store) error {
		if err := store.Orders.Create(ctx, order); err != nil {
			return err
		}
		for _, line := range input.Items {
			item, created, err := s.addLine(ctx, store, order.ID, line)
			if err != nil {
				return err
			}
			if created {
				newItems++
			}
			order.Items = append(order.Items, *item)
		}
		order.RecomputeTotal()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("customer_id", order.CustomerID),
		zap.Int("items", len(order.Items)))
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:        events.EventOrderCreated,
		AggregateID: order.ID,
		Actor:       actor.eventActor(),
		Payload: events.OrderCreatedPayload{
			CustomerID: order.CustomerID,
			ItemCount:  len(order.Items),
			NewItems:   newItems,
		},
	})
	return order, nil
}

// List returns the actor's own orders, newest first.
func (s *OrderService) List(ctx context.Context, actor Actor, filter OrderListFilter) ([]domain.Order, error) {
	if actor.Caller.CustomerID == "" {
		return []domain.Order{}, nil
	}
	customerID := actor.Caller.CustomerID
	return s.uow.Store().Orders.List(ctx, repository.OrderFilter{
		CustomerID: &customerID,
		States:     filter.States,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// ListAll returns every order, newest first. Admin only.
func (s *OrderService) ListAll(ctx context.Context, actor Actor, filter OrderListFilter) ([]domain.Order, error) {
	if !policy.Authorize(policy.ActionListAllOrders, actor.Caller, policy.Resource{}) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	return s.uow.Store().Orders.List(ctx, repository.OrderFilter{
		States: filter.States,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Get returns an order with its items.
func (s *OrderService) Get(ctx context.Context, actor Actor, id string) (*domain.Order, error) {
	store := s.uow.Store()
	order, err := loadOrder(ctx, store, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOrder(policy.ActionViewOrder, actor, order); err != nil {
		return nil, err
	}
	if order.Items, err = store.OrderItems.ListByOrder(ctx, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

// Update applies a comment edit and/or a state transition.
// Owners may cancel and edit the comment; other transitions need the admin role.
func (s *OrderService) Update(ctx context.Context, actor Actor, id string, input UpdateOrderInput) (*domain.Order, error) {
	var (
		order   *domain.Order
		from    domain.OrderState
		changed bool
	)
	err := s.uow.InTx(ctx, func(store repository.Store) error {
		found, err := loadOrder(ctx, store, id)
		if err != nil {
			return err
		}
		if err := authorizeOrder(policy.ActionViewOrder, actor, found); err != nil {
			return err
		}
		from = found.State

		if input.Comment != nil {
			if err := authorizeOrder(policy.ActionCommentOrder, actor, found); err != nil {
				return err
			}
			found.Comment = input.Comment
		}

		if input.State != nil && !input.State.Valid() {
			return apperrors.NewFieldError("state", fmt.Sprintf("%q is not a valid choice", string(*input.State)))
		}
		if input.State != nil && *input.State != found.State {
			action := policy.ActionTransitionOrder
			if *input.State == domain.OrderStateCancelled {
				action = policy.ActionCancelOrder
			}
			if err := authorizeOrder(action, actor, found); err != nil {
				return err
			}
		}
		if input.State != nil {
			changed, err = found.Transition(*input.State, actor.Username)
			if err != nil {
				return apperrors.NewFieldError("state", err.Error())
			}
		}

		if err := store.Orders.Update(ctx, found); err != nil {
			return err
		}
		if changed {
			if err := store.History.Create(ctx, &domain.OrderHistory{
				OrderID:     found.ID,
				ActorUserID: actor.userIDRef(),
				ActorName:   actor.Username,
				FromState:   from,
				ToState:     found.State,
				Comment:     found.Comment,
			}); err != nil {
				return err
			}
		}
		if found.Items, err = store.OrderItems.ListByOrder(ctx, found.ID); err != nil {
			return err
		}
		order = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("order state changed",
			zap.String("order_id", order.ID),
			zap.String("from", string(from)),
			zap.String("to", string(order.State)),
			zap.String("by", actor.Username))
		payload := events.OrderStateChangedPayload{OldState: from, NewState: order.State}
		if order.Comment != nil {
			payload.Comment = *order.Comment
		}
		publishEvent(ctx, s.dispatcher, events.Event{
			Type:        events.EventOrderStateChanged,
			AggregateID: order.ID,
			Actor:       actor.eventActor(),
			Payload:     payload,
		})
	}
	return order, nil
}

// AddItem appends a line item to an open order.
func (s *OrderService) AddItem(ctx context.Context, actor Actor, orderID string, line OrderLineInput) (*domain.OrderItem, error) {
	details := map[string]any{}
	validateLine(details, "", line)
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details)
	}

	var (
		item  *domain.OrderItem
		total decimal.Decimal
	)
	err := s.uow.InTx(ctx, func(store repository.Store) error {
		order, err := loadOrder(ctx, store, orderID)
		if err != nil {
			return err
		}
		if err := authorizeOrder(policy.ActionAddOrderItem, actor, order); err != nil {
			return err
		}
		if !order.AcceptsItems() {
			return apperrors.NewFieldError("state", fmt.Sprintf("items cannot be added to a %s order", order.State))
		}
		item, _, err = s.addLine(ctx, store, order.ID, line)
		total = order.Total
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishItemEvent(ctx, events.EventOrderItemAdded, actor, item, total)
	return item, nil
}

// GetItem returns one line item.
func (s *OrderService) GetItem(ctx context.Context, actor Actor, id string) (*domain.OrderItem, error) {
	store := s.uow.Store()
	item, order, err := loadOrderItem(ctx, store, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOrder(policy.ActionViewOrderItem, actor, order); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem edits a line item and recomputes the parent order total in the same transaction.
func (s *OrderService) UpdateItem(ctx context.Context, actor Actor, id string, input UpdateOrderItemInput) (*domain.OrderItem, error) {
	details := map[string]any{}
	if input.Quantity != nil {
		checkQuantity(details, "quantity", *input.Quantity)
	}
	if input.Unit != nil && !input.Unit.Valid() {
		details["unit"] = fmt.Sprintf("%q is not a valid choice", string(*input.Unit))
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			details["price"] = "ensure this value is greater than or equal to 0"
		} else if msg := domain.CheckDecimal(*input.Price, domain.PriceDigits, domain.PriceScale); msg != "" {
			details["price"] = msg
		}
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details)
	}

	var (
		item  *domain.OrderItem
		total decimal.Decimal
	)
	err := s.uow.InTx(ctx, func(store repository.Store) error {
		found, order, err := loadOrderItem(ctx, store, id)
		if err != nil {
			return err
		}
		if err := authorizeOrder(policy.ActionEditOrderItem, actor, order); err != nil {
			return err
		}
		if input.Price != nil {
			if err := authorizeOrder(policy.ActionPriceOrderItem, actor, order); err != nil {
				return apperrors.NewForbidden("only administrators can set prices")
			}
			found.Price = input.Price
		}
		if input.Quantity != nil {
			found.Quantity = *input.Quantity
		}
		if input.Unit != nil {
			found.Unit = *input.Unit
		}
		if err := store.OrderItems.Update(ctx, found); err != nil {
			return err
		}
		if total, err = recomputeTotal(ctx, store, order.ID); err != nil {
			return err
		}
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishItemEvent(ctx, events.EventOrderItemUpdated, actor, item, total)
	return item, nil
}

// DeleteItem removes a line item and recomputes the parent order total.
func (s *OrderService) DeleteItem(ctx context.Context, actor Actor, id string) error {
	var (
		item  *domain.OrderItem
		total decimal.Decimal
	)
	err := s.uow.InTx(ctx, func(store repository.Store) error {
		found, order, err := loadOrderItem(ctx, store, id)
		if err != nil {
			return err
		}
		if err := authorizeOrder(policy.ActionDeleteOrderItem, actor, order); err != nil {
			return err
		}
		if err := store.OrderItems.Delete(ctx, found.ID); err != nil {
			return err
		}
		if total, err = recomputeTotal(ctx, store, order.ID); err != nil {
			return err
		}
		item = found
		return nil
	})
	if err != nil {
		return err
	}

	s.publishItemEvent(ctx, events.EventOrderItemDeleted, actor, item, total)
	return nil
}

// History lists the recorded state transitions of an order.
func (s *OrderService) History(ctx context.Context, actor Actor, orderID string) ([]domain.OrderHistory, error) {
	store := s.uow.Store()
	order, err := loadOrder(ctx, store, orderID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOrder(policy.ActionViewOrder, actor, order); err != nil {
		return nil, err
	}
	return store.History.ListByOrder(ctx, order.ID)
}

// Receipt renders the order as a PDF document.
func (s *OrderService) Receipt(ctx context.Context, actor Actor, orderID string) ([]byte, error) {
	store := s.uow.Store()
	order, err := loadOrder(ctx, store, orderID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOrder(policy.ActionViewReceipt, actor, order); err != nil {
		return nil, err
	}
	if order.Items, err = store.OrderItems.ListByOrder(ctx, order.ID); err != nil {
		return nil, err
	}
	customer, err := store.Customers.GetByID(ctx, order.CustomerID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if s.renderer == nil {
		return nil, apperrors.NewRenderFailed(errors.New("no receipt renderer configured"))
	}

	pdf, err := s.renderer.Render(ctx, receipt.NewDocument(order, customer))
	if err != nil {
		s.logger.Error("receipt rendering failed", zap.String("order_id", order.ID), zap.Error(err))
		return nil, apperrors.NewRenderFailed(err)
	}
	return pdf, nil
}

func (s *OrderService) addLine(ctx context.Context, store repository.Store, orderID string, line OrderLineInput) (*domain.OrderItem, bool, error) {
	catalogItem, created, err := store.Items.Upsert(ctx, line.Name)
	if err != nil {
		return nil, false, fmt.Errorf("upsert item %q: %w", line.Name, err)
	}
	item := &domain.OrderItem{
		OrderID:  orderID,
		ItemID:   catalogItem.ID,
		ItemName: catalogItem.Name,
		Quantity: line.Quantity,
		Unit:     line.Unit,
	}
	if err := store.OrderItems.Create(ctx, item); err != nil {
		return nil, false, err
	}
	if created {
		s.logger.Debug("catalog item created", zap.String("item_id", catalogItem.ID), zap.String("name", catalogItem.Name))
	}
	return item, created, nil
}

func (s *OrderService) publishItemEvent(ctx context.Context, eventType events.EventType, actor Actor, item *domain.OrderItem, total decimal.Decimal) {
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:        eventType,
		AggregateID: item.OrderID,
		Actor:       actor.eventActor(),
		Payload: events.OrderItemPayload{
			OrderItemID: item.ID,
			ItemName:    item.ItemName,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			OrderTotal:  total,
		},
	})
}

func validateLine(details map[string]any, prefix string, line OrderLineInput) {
	if domain.NormalizeItemName(line.Name) == "" {
		details[prefix+"name"] = "this field may not be blank"
	}
	checkQuantity(details, prefix+"quantity", line.Quantity)
	if !line.Unit.Valid() {
		details[prefix+"unit"] = fmt.Sprintf("%q is not a valid choice", string(line.Unit))
	}
}

func checkQuantity(details map[string]any, key string, quantity decimal.Decimal) {
	if !quantity.IsPositive() {
		details[key] = "ensure this value is greater than 0"
		return
	}
	if msg := domain.CheckDecimal(quantity, domain.QuantityDigits, domain.QuantityScale); msg != "" {
		details[key] = msg
	}
}

func recomputeTotal(ctx context.Context, store repository.Store, orderID string) (decimal.Decimal, error) {
	if err := store.Orders.UpdateTotal(ctx, orderID); err != nil {
		return decimal.Zero, fmt.Errorf("recompute order total: %w", err)
	}
	order, err := store.Orders.GetByID(ctx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	return order.Total, nil
}

func authorizeOrder(action policy.Action, actor Actor, order *domain.Order) error {
	if policy.Authorize(action, actor.Caller, policy.Resource{OwnerCustomerID: order.CustomerID}) {
		return nil
	}
	switch action {
	case policy.ActionTransitionOrder:
		return apperrors.NewForbidden("only administrators can change the order state")
	default:
		return apperrors.NewForbidden("you do not have permission to perform this action")
	}
}

func loadOrder(ctx context.Context, store repository.Store, id string) (*domain.Order, error) {
	order, err := store.Orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", map[string]any{"id": id})
		}
		return nil, err
	}
	return order, nil
}

func loadOrderItem(ctx context.Context, store repository.Store, id string) (*domain.OrderItem, *domain.Order, error) {
	item, err := store.OrderItems.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("order item", map[string]any{"id": id})
		}
		return nil, nil, err
	}
	order, err := loadOrder(ctx, store, item.OrderID)
	if err != nil {
		return nil, nil, err
	}
	return item, order, nil
}
