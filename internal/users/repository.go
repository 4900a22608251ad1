package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopstack/shopstack/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	Create(ctx context.Context, user User, passwordHash string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	ListByTenant(ctx context.Context, tenantID int64, page shared.Pagination) ([]User, int, error)
	Update(ctx context.Context, user User, passwordHash *string) (User, error)
	SoftDelete(ctx context.Context, id int64) error
}

// Repository persists users in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const uniqueViolation = "23505"

func (r *Repository) Create(ctx context.Context, user User, passwordHash string) (User, error) {
	const query = `
		INSERT INTO users (email, name, password_hash, role, owner_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.Email, user.Name, passwordHash, user.Role, user.OwnerID, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, shared.ErrDuplicate
		}
		return User{}, err
	}
	return user, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (User, error) {
	const query = `
		SELECT id, email, name, role, owner_id, is_active, created_at, updated_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`
	var user User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Name, &user.Role, &user.OwnerID,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// ListByTenant returns staff of the tenant plus the owner account itself.
func (r *Repository) ListByTenant(ctx context.Context, tenantID int64, page shared.Pagination) ([]User, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM users
		WHERE deleted_at IS NULL AND (owner_id = $1 OR id = $1)
	`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
		SELECT id, email, name, role, owner_id, is_active, created_at, updated_at
		FROM users
		WHERE deleted_at IS NULL AND (owner_id = $1 OR id = $1)
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, tenantID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var user User
		if err := rows.Scan(
			&user.ID, &user.Email, &user.Name, &user.Role, &user.OwnerID,
			&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, user)
	}
	return out, total, rows.Err()
}

func (r *Repository) Update(ctx context.Context, user User, passwordHash *string) (User, error) {
	const query = `
		UPDATE users
		SET name = $2,
		    role = $3,
		    is_active = $4,
		    password_hash = COALESCE($5, password_hash),
		    updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query, user.ID, user.Name, user.Role, user.IsActive, passwordHash).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	const query = `
		UPDATE users
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
