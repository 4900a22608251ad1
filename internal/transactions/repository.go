package transactions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopstack/shopstack/internal/platform/db"
	"github.com/shopstack/shopstack/internal/shared"
)

// RepositoryPort defines data access methods for transactions.
type RepositoryPort interface {
	Create(ctx context.Context, txn Transaction) (Transaction, error)
	GetByID(ctx context.Context, id int64) (Transaction, error)
	ListByTenant(ctx context.Context, tenantID int64, page shared.Pagination) ([]Transaction, int, error)
	UpdateUnitPrice(ctx context.Context, id int64, price float64) (Transaction, error)
}

// Repository persists transactions in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts the transaction row and moves stock in one database
// transaction. SALE decrements the source product; TRANSFER additionally
// credits the matching SKU in the destination store, creating the row there
// when the store has not carried the product yet.
func (r *Repository) Create(ctx context.Context, txn Transaction) (Transaction, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const debit = `
			UPDATE products
			SET stock_qty = stock_qty - $2, updated_at = now()
			WHERE id = $1 AND deleted_at IS NULL AND stock_qty >= $2
		`
		tag, err := tx.Exec(ctx, debit, txn.ProductID, txn.Qty)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1 AND deleted_at IS NULL)`,
				txn.ProductID,
			).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return shared.ErrNotFound
			}
			return ErrInsufficientStock
		}

		if txn.ToStoreID != nil {
			if err := creditDestination(ctx, tx, txn); err != nil {
				return err
			}
		}

		const insert = `
			INSERT INTO transactions (code, type, from_store_id, to_store_id, product_id, qty, unit_price, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at
		`
		return tx.QueryRow(ctx, insert,
			txn.Code, txn.Type, txn.FromStoreID, txn.ToStoreID,
			txn.ProductID, txn.Qty, txn.UnitPrice, txn.CreatedBy,
		).Scan(&txn.ID, &txn.CreatedAt)
	})
	if err != nil {
		return Transaction{}, err
	}
	return txn, nil
}

func creditDestination(ctx context.Context, tx pgx.Tx, txn Transaction) error {
	const credit = `
		UPDATE products dst
		SET stock_qty = dst.stock_qty + $3, updated_at = now()
		FROM products src
		WHERE src.id = $1
		  AND dst.store_id = $2
		  AND dst.sku = src.sku
		  AND dst.deleted_at IS NULL
	`
	tag, err := tx.Exec(ctx, credit, txn.ProductID, *txn.ToStoreID, txn.Qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Destination store has never carried this SKU; clone the product there.
	const clone = `
		INSERT INTO products (store_id, category_id, name, sku, price, stock_qty, min_stock, created_by)
		SELECT $2, category_id, name, sku, price, $3, min_stock, $4
		FROM products
		WHERE id = $1
	`
	_, err = tx.Exec(ctx, clone, txn.ProductID, *txn.ToStoreID, txn.Qty, txn.CreatedBy)
	return err
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Transaction, error) {
	const query = `
		SELECT id, code, type, from_store_id, to_store_id, product_id, qty, unit_price, created_by, created_at
		FROM transactions
		WHERE id = $1
	`
	var txn Transaction
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&txn.ID, &txn.Code, &txn.Type, &txn.FromStoreID, &txn.ToStoreID,
		&txn.ProductID, &txn.Qty, &txn.UnitPrice, &txn.CreatedBy, &txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, shared.ErrNotFound
		}
		return Transaction{}, err
	}
	return txn, nil
}

// ListByTenant returns transactions touching any store of the tenant.
func (r *Repository) ListByTenant(ctx context.Context, tenantID int64, page shared.Pagination) ([]Transaction, int, error) {
	const filter = `
		EXISTS (
			SELECT 1 FROM stores s
			WHERE s.owner_id = $1
			  AND (s.id = t.from_store_id OR s.id = t.to_store_id)
		)
	`

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions t WHERE `+filter, tenantID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.code, t.type, t.from_store_id, t.to_store_id, t.product_id, t.qty, t.unit_price, t.created_by, t.created_at
		FROM transactions t
		WHERE `+filter+`
		ORDER BY t.id DESC
		LIMIT $2 OFFSET $3
	`, tenantID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var txn Transaction
		if err := rows.Scan(
			&txn.ID, &txn.Code, &txn.Type, &txn.FromStoreID, &txn.ToStoreID,
			&txn.ProductID, &txn.Qty, &txn.UnitPrice, &txn.CreatedBy, &txn.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, txn)
	}
	return out, total, rows.Err()
}

func (r *Repository) UpdateUnitPrice(ctx context.Context, id int64, price float64) (Transaction, error) {
	const query = `
		UPDATE transactions
		SET unit_price = $2
		WHERE id = $1
		RETURNING id, code, type, from_store_id, to_store_id, product_id, qty, unit_price, created_by, created_at
	`
	var txn Transaction
	err := r.pool.QueryRow(ctx, query, id, price).Scan(
		&txn.ID, &txn.Code, &txn.Type, &txn.FromStoreID, &txn.ToStoreID,
		&txn.ProductID, &txn.Qty, &txn.UnitPrice, &txn.CreatedBy, &txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, shared.ErrNotFound
		}
		return Transaction{}, err
	}
	return txn, nil
}
