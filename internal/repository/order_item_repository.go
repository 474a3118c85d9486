package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/order-service/internal/domain"
)

// OrderItemRepository persists order lines.
type OrderItemRepository interface {
	Create(ctx context.Context, item *domain.OrderItem) error
	Update(ctx context.Context, item *domain.OrderItem) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.OrderItem, error)
	ListByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error)
}

type orderItemRepository struct {
	db DBTX
}

// NewOrderItemRepository builds repository.
func NewOrderItemRepository(db DBTX) OrderItemRepository {
	return &orderItemRepository{db: db}
}

const orderItemColumns = `
        oi.id, oi.order_id, oi.item_id, i.name, oi.quantity, oi.price, oi.unit, oi.created_at, oi.updated_at`

func (r *orderItemRepository) Create(ctx context.Context, item *domain.OrderItem) error {
	const query = `
        INSERT INTO order_items (order_id, item_id, quantity, price, unit)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		item.OrderID,
		item.ItemID,
		item.Quantity,
		nullDecimal(item.Price),
		item.Unit,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *orderItemRepository) Update(ctx context.Context, item *domain.OrderItem) error {
	if err := checkID(item.ID); err != nil {
		return err
	}
	const query = `
        UPDATE order_items SET quantity=$1, price=$2, unit=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		item.Quantity,
		nullDecimal(item.Price),
		item.Unit,
		item.ID,
	).Scan(&item.UpdatedAt)
	return mapReadError(err)
}

func (r *orderItemRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM order_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderItemRepository) GetByID(ctx context.Context, id string) (*domain.OrderItem, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := `SELECT ` + orderItemColumns + `
        FROM order_items oi JOIN items i ON i.id = oi.item_id
        WHERE oi.id=$1`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, mapReadError(err)
	}
	defer rows.Close()
	items, err := scanOrderItems(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &items[0], nil
}

func (r *orderItemRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + `
        FROM order_items oi JOIN items i ON i.id = oi.item_id
        WHERE oi.order_id=$1 ORDER BY oi.created_at ASC, oi.id ASC`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrderItems(rows)
}

func scanOrderItems(rows pgx.Rows) ([]domain.OrderItem, error) {
	result := []domain.OrderItem{}
	for rows.Next() {
		var (
			item  domain.OrderItem
			price decimal.NullDecimal
		)
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ItemID,
			&item.ItemName,
			&item.Quantity,
			&price,
			&item.Unit,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if price.Valid {
			p := price.Decimal
			item.Price = &p
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
