package repository

import (
	"context"

	"github.com/spec-kit/order-service/internal/domain"
)

// CustomerRepository persists customer profiles.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Customer, error)
}

type customerRepository struct {
	db DBTX
}

// NewCustomerRepository returns a Postgres-backed implementation.
func NewCustomerRepository(db DBTX) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (user_id, ship, supervisor, contact)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		customer.UserID,
		customer.Ship,
		customer.Supervisor,
		customer.Contact,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	return mapWriteError(err)
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	const query = `
        UPDATE customers SET ship=$1, supervisor=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`

	return r.db.QueryRow(ctx, query,
		customer.Ship,
		customer.Supervisor,
		customer.ID,
	).Scan(&customer.UpdatedAt)
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	const query = `
        SELECT id, user_id, ship, supervisor, contact, created_at, updated_at
        FROM customers WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID string) (*domain.Customer, error) {
	if err := checkID(userID); err != nil {
		return nil, err
	}
	const query = `
        SELECT id, user_id, ship, supervisor, contact, created_at, updated_at
        FROM customers WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *customerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&customer.ID,
		&customer.UserID,
		&customer.Ship,
		&customer.Supervisor,
		&customer.Contact,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, mapReadError(err)
	}
	return &customer, nil
}
