// Package memory is an in-process implementation of the repository interfaces.
// It backs the service when no Postgres DSN is configured and in HTTP tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/repository"
)

type data struct {
	users      map[string]domain.User
	customers  map[string]domain.Customer
	items      map[string]domain.Item
	orders     map[string]domain.Order
	orderItems map[string]domain.OrderItem
	history    []domain.OrderHistory
	// seq orders rows created within the same clock tick.
	seq     int64
	created map[string]int64
}

func newData() *data {
	return &data{
		users:      map[string]domain.User{},
		customers:  map[string]domain.Customer{},
		items:      map[string]domain.Item{},
		orders:     map[string]domain.Order{},
		orderItems: map[string]domain.OrderItem{},
		created:    map[string]int64{},
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.users {
		v.Roles = append([]domain.Role(nil), v.Roles...)
		c.users[k] = v
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = v
	}
	for k, v := range d.orderItems {
		c.orderItems[k] = v
	}
	for k, v := range d.created {
		c.created[k] = v
	}
	c.history = append([]domain.OrderHistory(nil), d.history...)
	c.seq = d.seq
	return c
}

func (d *data) nextID() string {
	id := uuid.NewString()
	d.seq++
	d.created[id] = d.seq
	return id
}

// UnitOfWork is a mutex-guarded dataset. Transactions work on a copy that replaces
// the dataset only when the callback succeeds.
type UnitOfWork struct {
	mu    sync.Mutex
	state *data
}

// New returns an empty store.
func New() *UnitOfWork {
	return &UnitOfWork{state: newData()}
}

// Store returns repositories that lock the dataset per call.
// Calling it from inside InTx deadlocks; use the Store handed to the callback instead.
func (u *UnitOfWork) Store() repository.Store {
	return storeOn(&lockedAccess{uow: u})
}

// InTx runs fn against a private copy and commits the copy when fn returns nil.
func (u *UnitOfWork) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	snapshot := u.state.clone()
	if err := fn(storeOn(&txAccess{state: snapshot})); err != nil {
		return err
	}
	u.state = snapshot
	return nil
}

type access interface {
	with(fn func(*data) error) error
}

type lockedAccess struct {
	uow *UnitOfWork
}

func (a *lockedAccess) with(fn func(*data) error) error {
	a.uow.mu.Lock()
	defer a.uow.mu.Unlock()
	return fn(a.uow.state)
}

type txAccess struct {
	state *data
}

func (a *txAccess) with(fn func(*data) error) error {
	return fn(a.state)
}

func storeOn(a access) repository.Store {
	return repository.Store{
		Users:      &userRepo{a: a},
		Customers:  &customerRepo{a: a},
		Items:      &itemRepo{a: a},
		Orders:     &orderRepo{a: a},
		OrderItems: &orderItemRepo{a: a},
		History:    &historyRepo{a: a},
	}
}

func now() time.Time {
	return time.Now().UTC()
}

func page[T any](rows []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func sortByCreated[T any](d *data, rows []T, id func(T) string, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := d.created[id(rows[i])], d.created[id(rows[j])]
		if desc {
			return a > b
		}
		return a < b
	})
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)
