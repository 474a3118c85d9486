package repository

import (
	"context"

	"github.com/spec-kit/order-service/internal/domain"
)

// UserRepository defines persistence access for login identities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	AddRole(ctx context.Context, userID string, role domain.Role) error
}

type userRepository struct {
	db DBTX
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `
        u.id, u.username, u.password_hash, u.is_active,
        ARRAY(SELECT r.role FROM user_roles r WHERE r.user_id = u.id ORDER BY r.role),
        u.created_at, u.updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, password_hash, is_active)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	for _, role := range user.Roles {
		if err := r.AddRole(ctx, user.ID, role); err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET username=$1, password_hash=$2, is_active=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.IsActive,
		user.ID,
	).Scan(&user.UpdatedAt)
	return mapWriteError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.username=$1`
	return r.fetchSingle(ctx, query, username)
}

func (r *userRepository) AddRole(ctx context.Context, userID string, role domain.Role) error {
	const query = `
        INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
        ON CONFLICT (user_id, role) DO NOTHING`
	_, err := r.db.Exec(ctx, query, userID, role)
	return err
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user  domain.User
		roles []string
	)
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.IsActive,
		&roles,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, mapReadError(err)
	}
	user.Roles = toRoles(roles)
	return &user, nil
}

func toRoles(raw []string) []domain.Role {
	roles := make([]domain.Role, 0, len(raw))
	for _, r := range raw {
		roles = append(roles, domain.Role(r))
	}
	return roles
}
