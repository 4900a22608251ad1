package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort defines the aggregate reads behind the inventory report.
type RepositoryPort interface {
	CountProducts(ctx context.Context, tenantID int64) (int64, error)
	SumStock(ctx context.Context, tenantID int64) (int64, float64, error)
	CountLowStock(ctx context.Context, tenantID int64) (int64, error)
}

// Repository reads report aggregates from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const tenantProducts = `
	FROM products p
	JOIN stores s ON s.id = p.store_id
	WHERE p.deleted_at IS NULL AND s.deleted_at IS NULL AND s.owner_id = $1
`

func (r *Repository) CountProducts(ctx context.Context, tenantID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) `+tenantProducts, tenantID).Scan(&count)
	return count, err
}

// SumStock returns total units on hand and their value at current price.
func (r *Repository) SumStock(ctx context.Context, tenantID int64) (int64, float64, error) {
	var units int64
	var value float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(p.stock_qty), 0), COALESCE(SUM(p.stock_qty * p.price), 0) `+tenantProducts,
		tenantID,
	).Scan(&units, &value)
	return units, value, err
}

func (r *Repository) CountLowStock(ctx context.Context, tenantID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) `+tenantProducts+` AND p.stock_qty < p.min_stock`,
		tenantID,
	).Scan(&count)
	return count, err
}
