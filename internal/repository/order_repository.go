package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/domain"
)

// OrderFilter captures list parameters.
type OrderFilter struct {
	CustomerID *string
	States     []domain.OrderState
	Limit      int
	Offset     int
}

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	UpdateTotal(ctx context.Context, orderID string) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
}

type orderRepository struct {
	db DBTX
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(db DBTX) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (customer_id, state, comment, total)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_on, updated_at`
	return r.db.QueryRow(ctx, query,
		order.CustomerID,
		order.State,
		order.Comment,
		order.Total,
	).Scan(&order.ID, &order.CreatedOn, &order.UpdatedAt)
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	const query = `
        UPDATE orders SET state=$1, comment=$2, total=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`
	return r.db.QueryRow(ctx, query,
		order.State,
		order.Comment,
		order.Total,
		order.ID,
	).Scan(&order.UpdatedAt)
}

// UpdateTotal recomputes the cached total from the order's priced lines.
func (r *orderRepository) UpdateTotal(ctx context.Context, orderID string) error {
	if err := checkID(orderID); err != nil {
		return err
	}
	const query = `
        UPDATE orders SET total = COALESCE(
            (SELECT SUM(price) FROM order_items WHERE order_id = $1 AND price IS NOT NULL), 0),
            updated_at = NOW()
        WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, orderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	const query = `
        SELECT id, customer_id, state, comment, total, created_on, updated_at
        FROM orders WHERE id=$1`

	var order domain.Order
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.CustomerID,
		&order.State,
		&order.Comment,
		&order.Total,
		&order.CreatedOn,
		&order.UpdatedAt,
	); err != nil {
		return nil, mapReadError(err)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	base := `SELECT id, customer_id, state, comment, total, created_on, updated_at FROM orders`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if len(filter.States) > 0 {
		placeholders := make([]string, len(filter.States))
		for i, state := range filter.States {
			args = append(args, state)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("state IN (%s)", strings.Join(placeholders, ",")))
	}

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_on DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	result := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&order.State,
			&order.Comment,
			&order.Total,
			&order.CreatedOn,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}
