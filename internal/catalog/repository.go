package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopstack/shopstack/internal/shared"
)

// RepositoryPort defines data access methods for the catalog.
type RepositoryPort interface {
	CreateCategory(ctx context.Context, category Category) (Category, error)
	GetCategoryByID(ctx context.Context, id int64) (Category, error)
	ListCategoriesByTenant(ctx context.Context, tenantID int64, page shared.Pagination) ([]Category, int, error)
	UpdateCategory(ctx context.Context, category Category) (Category, error)
	SoftDeleteCategory(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, product Product) (Product, error)
	GetProductByID(ctx context.Context, id int64) (Product, error)
	ListProductsByTenant(ctx context.Context, tenantID int64, page shared.Pagination) ([]Product, int, error)
	UpdateProduct(ctx context.Context, product Product) (Product, error)
	SoftDeleteProduct(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, productID, delta int64) (Product, error)

	AddSerials(ctx context.Context, productID int64, serials []string) ([]Serial, error)
	ListSerials(ctx context.Context, productID int64) ([]Serial, error)
}

// Repository persists catalog data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *Repository) CreateCategory(ctx context.Context, category Category) (Category, error) {
	const query = `
		INSERT INTO categories (name, created_by)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, category.Name, category.CreatedBy).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Category{}, shared.ErrDuplicate
		}
		return Category{}, err
	}
	return category, nil
}

func (r *Repository) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	const query = `
		SELECT id, name, created_by, created_at, updated_at
		FROM categories
		WHERE id = $1 AND deleted_at IS NULL
	`
	var category Category
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID, &category.Name, &category.CreatedBy,
		&category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, shared.ErrNotFound
		}
		return Category{}, err
	}
	return category, nil
}

// ListCategoriesByTenant resolves tenant membership through the creator, the
// same walk the scope resolver performs.
func (r *Repository) ListCategoriesByTenant(ctx context.Context, tenantID int64, page shared.Pagination) ([]Category, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM categories c
		JOIN users u ON u.id = c.created_by
		WHERE c.deleted_at IS NULL AND (u.owner_id = $1 OR u.id = $1)
	`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
		SELECT c.id, c.name, c.created_by, c.created_at, c.updated_at
		FROM categories c
		JOIN users u ON u.id = c.created_by
		WHERE c.deleted_at IS NULL AND (u.owner_id = $1 OR u.id = $1)
		ORDER BY c.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, tenantID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var category Category
		if err := rows.Scan(
			&category.ID, &category.Name, &category.CreatedBy,
			&category.CreatedAt, &category.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, category)
	}
	return out, total, rows.Err()
}

func (r *Repository) UpdateCategory(ctx context.Context, category Category) (Category, error) {
	const query = `
		UPDATE categories
		SET name = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query, category.ID, category.Name).Scan(&category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, shared.ErrNotFound
		}
		return Category{}, err
	}
	return category, nil
}

func (r *Repository) SoftDeleteCategory(ctx context.Context, id int64) error {
	const query = `
		UPDATE categories
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

func (r *Repository) CreateProduct(ctx context.Context, product Product) (Product, error) {
	const query = `
		INSERT INTO products (store_id, category_id, name, sku, price, stock_qty, min_stock, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		product.StoreID, product.CategoryID, product.Name, product.SKU,
		product.Price, product.StockQty, product.MinStock, product.CreatedBy,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Product{}, shared.ErrDuplicate
		}
		return Product{}, err
	}
	return product, nil
}

func (r *Repository) GetProductByID(ctx context.Context, id int64) (Product, error) {
	const query = `
		SELECT id, store_id, category_id, name, sku, price, stock_qty, min_stock, created_by, created_at, updated_at
		FROM products
		WHERE id = $1 AND deleted_at IS NULL
	`
	var product Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID, &product.StoreID, &product.CategoryID, &product.Name, &product.SKU,
		&product.Price, &product.StockQty, &product.MinStock, &product.CreatedBy,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return product, nil
}

func (r *Repository) ListProductsByTenant(ctx context.Context, tenantID int64, page shared.Pagination) ([]Product, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM products p
		JOIN stores s ON s.id = p.store_id
		WHERE p.deleted_at IS NULL AND s.deleted_at IS NULL AND s.owner_id = $1
	`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
		SELECT p.id, p.store_id, p.category_id, p.name, p.sku, p.price, p.stock_qty, p.min_stock, p.created_by, p.created_at, p.updated_at
		FROM products p
		JOIN stores s ON s.id = p.store_id
		WHERE p.deleted_at IS NULL AND s.deleted_at IS NULL AND s.owner_id = $1
		ORDER BY p.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, tenantID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var product Product
		if err := rows.Scan(
			&product.ID, &product.StoreID, &product.CategoryID, &product.Name, &product.SKU,
			&product.Price, &product.StockQty, &product.MinStock, &product.CreatedBy,
			&product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, product)
	}
	return out, total, rows.Err()
}

func (r *Repository) UpdateProduct(ctx context.Context, product Product) (Product, error) {
	const query = `
		UPDATE products
		SET category_id = $2, name = $3, price = $4, min_stock = $5, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.CategoryID, product.Name, product.Price, product.MinStock,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return product, nil
}

func (r *Repository) SoftDeleteProduct(ctx context.Context, id int64) error {
	const query = `
		UPDATE products
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

// AdjustStock applies a delta guarded against negative stock in one
// statement.
func (r *Repository) AdjustStock(ctx context.Context, productID, delta int64) (Product, error) {
	const query = `
		UPDATE products
		SET stock_qty = stock_qty + $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL AND stock_qty + $2 >= 0
		RETURNING id, store_id, category_id, name, sku, price, stock_qty, min_stock, created_by, created_at, updated_at
	`
	var product Product
	err := r.pool.QueryRow(ctx, query, productID, delta).Scan(
		&product.ID, &product.StoreID, &product.CategoryID, &product.Name, &product.SKU,
		&product.Price, &product.StockQty, &product.MinStock, &product.CreatedBy,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the row is gone or the guard rejected the delta.
			if _, getErr := r.GetProductByID(ctx, productID); getErr != nil {
				return Product{}, getErr
			}
			return Product{}, ErrNegativeStock
		}
		return Product{}, err
	}
	return product, nil
}

func (r *Repository) AddSerials(ctx context.Context, productID int64, serials []string) ([]Serial, error) {
	const query = `
		INSERT INTO product_serials (product_id, serial, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	out := make([]Serial, 0, len(serials))
	for _, value := range serials {
		serial := Serial{ProductID: productID, Serial: value, Status: SerialStatusAvailable}
		err := r.pool.QueryRow(ctx, query, productID, value, SerialStatusAvailable).
			Scan(&serial.ID, &serial.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, shared.ErrDuplicate
			}
			return nil, err
		}
		out = append(out, serial)
	}
	return out, nil
}

func (r *Repository) ListSerials(ctx context.Context, productID int64) ([]Serial, error) {
	const query = `
		SELECT id, product_id, serial, status, created_at
		FROM product_serials
		WHERE product_id = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Serial
	for rows.Next() {
		var serial Serial
		if err := rows.Scan(&serial.ID, &serial.ProductID, &serial.Serial, &serial.Status, &serial.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, serial)
	}
	return out, rows.Err()
}
