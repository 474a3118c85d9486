package memory

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/repository"
)

type userRepo struct{ a access }

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	return r.a.with(func(d *data) error {
		for _, existing := range d.users {
			if existing.Username == user.Username {
				return repository.ErrDuplicate
			}
		}
		user.ID = d.nextID()
		user.CreatedAt = now()
		user.UpdatedAt = user.CreatedAt
		stored := *user
		stored.Roles = append([]domain.Role(nil), user.Roles...)
		d.users[user.ID] = stored
		return nil
	})
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	return r.a.with(func(d *data) error {
		current, ok := d.users[user.ID]
		if !ok {
			return pgx.ErrNoRows
		}
		for id, existing := range d.users {
			if id != user.ID && existing.Username == user.Username {
				return repository.ErrDuplicate
			}
		}
		current.Username = user.Username
		current.PasswordHash = user.PasswordHash
		current.IsActive = user.IsActive
		current.UpdatedAt = now()
		user.UpdatedAt = current.UpdatedAt
		d.users[user.ID] = current
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	var out *domain.User
	err := r.a.with(func(d *data) error {
		user, ok := d.users[id]
		if !ok {
			return pgx.ErrNoRows
		}
		out = copyUser(user)
		return nil
	})
	return out, err
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	var out *domain.User
	err := r.a.with(func(d *data) error {
		for _, user := range d.users {
			if user.Username == username {
				out = copyUser(user)
				return nil
			}
		}
		return pgx.ErrNoRows
	})
	return out, err
}

func (r *userRepo) AddRole(_ context.Context, userID string, role domain.Role) error {
	return r.a.with(func(d *data) error {
		user, ok := d.users[userID]
		if !ok {
			return pgx.ErrNoRows
		}
		if domain.HasRole(user.Roles, role) {
			return nil
		}
		user.Roles = append(append([]domain.Role(nil), user.Roles...), role)
		d.users[userID] = user
		return nil
	})
}

func copyUser(user domain.User) *domain.User {
	user.Roles = append([]domain.Role(nil), user.Roles...)
	return &user
}

type customerRepo struct{ a access }

func (r *customerRepo) Create(_ context.Context, customer *domain.Customer) error {
	return r.a.with(func(d *data) error {
		if _, ok := d.users[customer.UserID]; !ok {
			return pgx.ErrNoRows
		}
		for _, existing := range d.customers {
			if existing.Contact == customer.Contact || existing.UserID == customer.UserID {
				return repository.ErrDuplicate
			}
		}
		customer.ID = d.nextID()
		customer.CreatedAt = now()
		customer.UpdatedAt = customer.CreatedAt
		d.customers[customer.ID] = *customer
		return nil
	})
}

func (r *customerRepo) Update(_ context.Context, customer *domain.Customer) error {
	return r.a.with(func(d *data) error {
		current, ok := d.customers[customer.ID]
		if !ok {
			return pgx.ErrNoRows
		}
		current.Ship = customer.Ship
		current.Supervisor = customer.Supervisor
		current.UpdatedAt = now()
		customer.UpdatedAt = current.UpdatedAt
		d.customers[customer.ID] = current
		return nil
	})
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	var out *domain.Customer
	err := r.a.with(func(d *data) error {
		customer, ok := d.customers[id]
		if !ok {
			return pgx.ErrNoRows
		}
		out = &customer
		return nil
	})
	return out, err
}

func (r *customerRepo) GetByUserID(_ context.Context, userID string) (*domain.Customer, error) {
	var out *domain.Customer
	err := r.a.with(func(d *data) error {
		for _, customer := range d.customers {
			if customer.UserID == userID {
				c := customer
				out = &c
				return nil
			}
		}
		return pgx.ErrNoRows
	})
	return out, err
}

type itemRepo struct{ a access }

func (r *itemRepo) Upsert(_ context.Context, name string) (*domain.Item, bool, error) {
	var (
		out     *domain.Item
		created bool
	)
	err := r.a.with(func(d *data) error {
		key := domain.NormalizeItemName(name)
		for _, item := range d.items {
			if item.NormalizedName == key {
				i := item
				out = &i
				return nil
			}
		}
		item := domain.Item{
			ID:             d.nextID(),
			Name:           domain.CleanItemName(name),
			NormalizedName: key,
			DefaultPrice:   decimal.Zero,
			CreatedAt:      now(),
		}
		item.UpdatedAt = item.CreatedAt
		d.items[item.ID] = item
		out = &item
		created = true
		return nil
	})
	return out, created, err
}

func (r *itemRepo) Update(_ context.Context, item *domain.Item) error {
	return r.a.with(func(d *data) error {
		current, ok := d.items[item.ID]
		if !ok {
			return pgx.ErrNoRows
		}
		key := domain.NormalizeItemName(item.Name)
		for id, existing := range d.items {
			if id != item.ID && existing.NormalizedName == key {
				return repository.ErrDuplicate
			}
		}
		current.Name = item.Name
		current.NormalizedName = key
		current.DefaultPrice = item.DefaultPrice
		current.UpdatedAt = now()
		item.NormalizedName = key
		item.UpdatedAt = current.UpdatedAt
		d.items[item.ID] = current
		return nil
	})
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*domain.Item, error) {
	var out *domain.Item
	err := r.a.with(func(d *data) error {
		item, ok := d.items[id]
		if !ok {
			return pgx.ErrNoRows
		}
		out = &item
		return nil
	})
	return out, err
}

func (r *itemRepo) List(_ context.Context, limit, offset int) ([]domain.Item, error) {
	var out []domain.Item
	err := r.a.with(func(d *data) error {
		rows := make([]domain.Item, 0, len(d.items))
		for _, item := range d.items {
			rows = append(rows, item)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].NormalizedName < rows[j].NormalizedName })
		out = append([]domain.Item{}, page(rows, limit, offset)...)
		return nil
	})
	return out, err
}

type orderRepo struct{ a access }

func (r *orderRepo) Create(_ context.Context, order *domain.Order) error {
	return r.a.with(func(d *data) error {
		if _, ok := d.customers[order.CustomerID]; !ok {
			return pgx.ErrNoRows
		}
		order.ID = d.nextID()
		order.CreatedOn = now()
		order.UpdatedAt = order.CreatedOn
		stored := *order
		stored.Items = nil
		d.orders[order.ID] = stored
		return nil
	})
}

func (r *orderRepo) Update(_ context.Context, order *domain.Order) error {
	return r.a.with(func(d *data) error {
		current, ok := d.orders[order.ID]
		if !ok {
			return pgx.ErrNoRows
		}
		current.State = order.State
		current.Comment = order.Comment
		current.Total = order.Total
		current.UpdatedAt = now()
		order.UpdatedAt = current.UpdatedAt
		d.orders[order.ID] = current
		return nil
	})
}

func (r *orderRepo) UpdateTotal(_ context.Context, orderID string) error {
	return r.a.with(func(d *data) error {
		current, ok := d.orders[orderID]
		if !ok {
			return pgx.ErrNoRows
		}
		var lines []domain.OrderItem
		for _, item := range d.orderItems {
			if item.OrderID == orderID {
				lines = append(lines, item)
			}
		}
		current.Total = domain.SumPrices(lines)
		current.UpdatedAt = now()
		d.orders[orderID] = current
		return nil
	})
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	var out *domain.Order
	err := r.a.with(func(d *data) error {
		order, ok := d.orders[id]
		if !ok {
			return pgx.ErrNoRows
		}
		out = &order
		return nil
	})
	return out, err
}

func (r *orderRepo) List(_ context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	err := r.a.with(func(d *data) error {
		rows := []domain.Order{}
		for _, order := range d.orders {
			if filter.CustomerID != nil && order.CustomerID != *filter.CustomerID {
				continue
			}
			if len(filter.States) > 0 && !containsState(filter.States, order.State) {
				continue
			}
			rows = append(rows, order)
		}
		sortByCreated(d, rows, func(o domain.Order) string { return o.ID }, true)
		out = append([]domain.Order{}, page(rows, filter.Limit, filter.Offset)...)
		return nil
	})
	return out, err
}

func containsState(states []domain.OrderState, state domain.OrderState) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}

type orderItemRepo struct{ a access }

func (r *orderItemRepo) Create(_ context.Context, item *domain.OrderItem) error {
	return r.a.with(func(d *data) error {
		if _, ok := d.orders[item.OrderID]; !ok {
			return pgx.ErrNoRows
		}
		catalog, ok := d.items[item.ItemID]
		if !ok {
			return pgx.ErrNoRows
		}
		item.ID = d.nextID()
		item.ItemName = catalog.Name
		item.CreatedAt = now()
		item.UpdatedAt = item.CreatedAt
		d.orderItems[item.ID] = *item
		return nil
	})
}

func (r *orderItemRepo) Update(_ context.Context, item *domain.OrderItem) error {
	return r.a.with(func(d *data) error {
		current, ok := d.orderItems[item.ID]
		if !ok {
			return pgx.ErrNoRows
		}
		current.Quantity = item.Quantity
		current.Price = item.Price
		current.Unit = item.Unit
		current.UpdatedAt = now()
		item.UpdatedAt = current.UpdatedAt
		d.orderItems[item.ID] = current
		return nil
	})
}

func (r *orderItemRepo) Delete(_ context.Context, id string) error {
	return r.a.with(func(d *data) error {
		if _, ok := d.orderItems[id]; !ok {
			return pgx.ErrNoRows
		}
		delete(d.orderItems, id)
		return nil
	})
}

func (r *orderItemRepo) GetByID(_ context.Context, id string) (*domain.OrderItem, error) {
	var out *domain.OrderItem
	err := r.a.with(func(d *data) error {
		item, ok := d.orderItems[id]
		if !ok {
			return pgx.ErrNoRows
		}
		item.ItemName = d.items[item.ItemID].Name
		out = &item
		return nil
	})
	return out, err
}

func (r *orderItemRepo) ListByOrder(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	var out []domain.OrderItem
	err := r.a.with(func(d *data) error {
		rows := []domain.OrderItem{}
		for _, item := range d.orderItems {
			if item.OrderID == orderID {
				item.ItemName = d.items[item.ItemID].Name
				rows = append(rows, item)
			}
		}
		sortByCreated(d, rows, func(i domain.OrderItem) string { return i.ID }, false)
		out = rows
		return nil
	})
	return out, err
}

type historyRepo struct{ a access }

func (r *historyRepo) Create(_ context.Context, entry *domain.OrderHistory) error {
	return r.a.with(func(d *data) error {
		if _, ok := d.orders[entry.OrderID]; !ok {
			return pgx.ErrNoRows
		}
		entry.ID = d.nextID()
		entry.CreatedAt = now()
		d.history = append(d.history, *entry)
		return nil
	})
}

func (r *historyRepo) ListByOrder(_ context.Context, orderID string) ([]domain.OrderHistory, error) {
	var out []domain.OrderHistory
	err := r.a.with(func(d *data) error {
		out = []domain.OrderHistory{}
		for _, entry := range d.history {
			if entry.OrderID == orderID {
				out = append(out, entry)
			}
		}
		return nil
	})
	return out, err
}
