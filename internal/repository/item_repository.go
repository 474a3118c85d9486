package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/domain"
)

// ItemRepository persists the item catalog.
type ItemRepository interface {
	// Upsert returns the item whose normalized name matches name, creating it when absent.
	// The boolean reports whether a new row was inserted.
	Upsert(ctx context.Context, name string) (*domain.Item, bool, error)
	Update(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context, limit, offset int) ([]domain.Item, error)
}

type itemRepository struct {
	db DBTX
}

// NewItemRepository returns a Postgres-backed implementation.
func NewItemRepository(db DBTX) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Upsert(ctx context.Context, name string) (*domain.Item, bool, error) {
	// The no-op DO UPDATE makes RETURNING yield the existing row; xmax is 0 only for fresh inserts.
	const query = `
        INSERT INTO items (name, normalized_name, default_price)
        VALUES ($1, $2, 0)
        ON CONFLICT (normalized_name) DO UPDATE SET normalized_name = EXCLUDED.normalized_name
        RETURNING id, name, normalized_name, default_price, created_at, updated_at, (xmax = 0)`

	var (
		item    domain.Item
		created bool
	)
	if err := r.db.QueryRow(ctx, query,
		domain.CleanItemName(name),
		domain.NormalizeItemName(name),
	).Scan(
		&item.ID,
		&item.Name,
		&item.NormalizedName,
		&item.DefaultPrice,
		&item.CreatedAt,
		&item.UpdatedAt,
		&created,
	); err != nil {
		return nil, false, err
	}
	return &item, created, nil
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	const query = `
        UPDATE items SET name=$1, normalized_name=$2, default_price=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`

	item.NormalizedName = domain.NormalizeItemName(item.Name)
	err := r.db.QueryRow(ctx, query,
		item.Name,
		item.NormalizedName,
		item.DefaultPrice,
		item.ID,
	).Scan(&item.UpdatedAt)
	return mapWriteError(err)
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	const query = `
        SELECT id, name, normalized_name, default_price, created_at, updated_at
        FROM items WHERE id=$1`

	var item domain.Item
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.NormalizedName,
		&item.DefaultPrice,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, mapReadError(err)
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, limit, offset int) ([]domain.Item, error) {
	const query = `
        SELECT id, name, normalized_name, default_price, created_at, updated_at
        FROM items ORDER BY normalized_name ASC LIMIT $1 OFFSET $2`

	limit, offset = pageBounds(limit, offset)
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]domain.Item, error) {
	result := []domain.Item{}
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.NormalizedName,
			&item.DefaultPrice,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
