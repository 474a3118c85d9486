package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles the repositories that share one connection or transaction.
type Store struct {
	Users      UserRepository
	Customers  CustomerRepository
	Items      ItemRepository
	Orders     OrderRepository
	OrderItems OrderItemRepository
	History    OrderHistoryRepository
}

// UnitOfWork hands out repositories and runs callbacks inside a transaction.
// A callback error rolls back every write made through the Store it received.
type UnitOfWork interface {
	Store() Store
	InTx(ctx context.Context, fn func(Store) error) error
}

type postgresUnitOfWork struct {
	pool  *pgxpool.Pool
	store Store
}

// NewPostgresUnitOfWork returns a pgx-backed unit of work.
func NewPostgresUnitOfWork(pool *pgxpool.Pool) UnitOfWork {
	return &postgresUnitOfWork{pool: pool, store: storeFor(pool)}
}

func (u *postgresUnitOfWork) Store() Store {
	return u.store
}

func (u *postgresUnitOfWork) InTx(ctx context.Context, fn func(Store) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		// no-op once committed
		_ = tx.Rollback(ctx)
	}()

	if err := fn(storeFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func storeFor(db DBTX) Store {
	return Store{
		Users:      NewUserRepository(db),
		Customers:  NewCustomerRepository(db),
		Items:      NewItemRepository(db),
		Orders:     NewOrderRepository(db),
		OrderItems: NewOrderItemRepository(db),
		History:    NewOrderHistoryRepository(db),
	}
}
