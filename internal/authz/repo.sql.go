package authz

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements Directory against PostgreSQL. All queries are
// read-only projections scoped to non-deleted rows; transactions carry no
// deleted_at column and are never filtered.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository over the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) FindUserByID(ctx context.Context, id int64) (UserRecord, error) {
	const query = `
		SELECT id, role, owner_id, is_active
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`
	var rec UserRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.Role, &rec.OwnerID, &rec.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrNotFound
		}
		return UserRecord{}, err
	}
	return rec, nil
}

func (r *Repository) FindStoreByID(ctx context.Context, id int64) (StoreRecord, error) {
	const query = `
		SELECT id, owner_id
		FROM stores
		WHERE id = $1 AND deleted_at IS NULL
	`
	var rec StoreRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StoreRecord{}, ErrNotFound
		}
		return StoreRecord{}, err
	}
	return rec, nil
}

func (r *Repository) FindCategoryWithCreator(ctx context.Context, id int64) (CategoryRecord, error) {
	const query = `
		SELECT c.id, c.created_by, u.role, u.owner_id
		FROM categories c
		JOIN users u ON u.id = c.created_by
		WHERE c.id = $1 AND c.deleted_at IS NULL
	`
	var rec CategoryRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.CreatedBy, &rec.CreatorRole, &rec.CreatorOwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CategoryRecord{}, ErrNotFound
		}
		return CategoryRecord{}, err
	}
	return rec, nil
}

func (r *Repository) FindProductWithStore(ctx context.Context, id int64) (ProductRecord, error) {
	const query = `
		SELECT p.id, p.store_id, s.owner_id
		FROM products p
		JOIN stores s ON s.id = p.store_id
		WHERE p.id = $1 AND p.deleted_at IS NULL AND s.deleted_at IS NULL
	`
	var rec ProductRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.StoreID, &rec.StoreOwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductRecord{}, ErrNotFound
		}
		return ProductRecord{}, err
	}
	return rec, nil
}

func (r *Repository) FindTransactionStores(ctx context.Context, id int64) (TransactionEndpoints, error) {
	const query = `
		SELECT id, from_store_id, to_store_id
		FROM transactions
		WHERE id = $1
	`
	var rec TransactionEndpoints
	err := r.pool.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.FromStoreID, &rec.ToStoreID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TransactionEndpoints{}, ErrNotFound
		}
		return TransactionEndpoints{}, err
	}
	return rec, nil
}
