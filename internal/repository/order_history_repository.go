package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/domain"
)

// OrderHistoryRepository stores audit entries.
type OrderHistoryRepository interface {
	Create(ctx context.Context, entry *domain.OrderHistory) error
	ListByOrder(ctx context.Context, orderID string) ([]domain.OrderHistory, error)
}

type orderHistoryRepository struct {
	db DBTX
}

// NewOrderHistoryRepository builds repository.
func NewOrderHistoryRepository(db DBTX) OrderHistoryRepository {
	return &orderHistoryRepository{db: db}
}

func (r *orderHistoryRepository) Create(ctx context.Context, entry *domain.OrderHistory) error {
	const query = `
        INSERT INTO order_history (order_id, actor_user_id, actor_name, from_state, to_state, comment)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		entry.OrderID,
		entry.ActorUserID,
		entry.ActorName,
		entry.FromState,
		entry.ToState,
		entry.Comment,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *orderHistoryRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	const query = `
        SELECT id, order_id, actor_user_id, actor_name, from_state, to_state, comment, created_at
        FROM order_history WHERE order_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistory(rows)
}

func scanHistory(rows pgx.Rows) ([]domain.OrderHistory, error) {
	result := []domain.OrderHistory{}
	for rows.Next() {
		var entry domain.OrderHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.OrderID,
			&entry.ActorUserID,
			&entry.ActorName,
			&entry.FromState,
			&entry.ToState,
			&entry.Comment,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
