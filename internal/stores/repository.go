package stores

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopstack/shopstack/internal/shared"
)

// RepositoryPort defines data access methods for stores.
type RepositoryPort interface {
	Create(ctx context.Context, store Store) (Store, error)
	GetByID(ctx context.Context, id int64) (Store, error)
	ListByTenant(ctx context.Context, tenantID int64, page shared.Pagination) ([]Store, int, error)
	Update(ctx context.Context, store Store) (Store, error)
	SoftDelete(ctx context.Context, id int64) error
}

// Repository persists stores in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, store Store) (Store, error) {
	const query = `
		INSERT INTO stores (owner_id, name, address)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, store.OwnerID, store.Name, store.Address).
		Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		return Store{}, err
	}
	return store, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Store, error) {
	const query = `
		SELECT id, owner_id, name, address, created_at, updated_at
		FROM stores
		WHERE id = $1 AND deleted_at IS NULL
	`
	var store Store
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&store.ID, &store.OwnerID, &store.Name, &store.Address,
		&store.CreatedAt, &store.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Store{}, shared.ErrNotFound
		}
		return Store{}, err
	}
	return store, nil
}

func (r *Repository) ListByTenant(ctx context.Context, tenantID int64, page shared.Pagination) ([]Store, int, error) {
	const countQuery = `SELECT COUNT(*) FROM stores WHERE owner_id = $1 AND deleted_at IS NULL`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
		SELECT id, owner_id, name, address, created_at, updated_at
		FROM stores
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, tenantID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Store
	for rows.Next() {
		var store Store
		if err := rows.Scan(
			&store.ID, &store.OwnerID, &store.Name, &store.Address,
			&store.CreatedAt, &store.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, store)
	}
	return out, total, rows.Err()
}

func (r *Repository) Update(ctx context.Context, store Store) (Store, error) {
	const query = `
		UPDATE stores
		SET name = $2, address = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query, store.ID, store.Name, store.Address).Scan(&store.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Store{}, shared.ErrNotFound
		}
		return Store{}, err
	}
	return store, nil
}

func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	const query = `
		UPDATE stores
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
