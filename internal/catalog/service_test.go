package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopstack/shopstack/internal/authz"
	"github.com/shopstack/shopstack/internal/shared"
)

type memUser struct {
	role    authz.Role
	ownerID *int64
}

type memStore struct {
	ownerID int64
}

type memRepo struct {
	users      map[int64]memUser
	stores     map[int64]memStore
	categories map[int64]Category
	products   map[int64]Product
	serials    map[int64][]Serial
	nextID     int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:      make(map[int64]memUser),
		stores:     make(map[int64]memStore),
		categories: make(map[int64]Category),
		products:   make(map[int64]Product),
		serials:    make(map[int64][]Serial),
	}
}

func (r *memRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *memRepo) CreateCategory(_ context.Context, category Category) (Category, error) {
	category.ID = r.id()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	r.categories[category.ID] = category
	return category, nil
}

func (r *memRepo) GetCategoryByID(_ context.Context, id int64) (Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return Category{}, shared.ErrNotFound
	}
	return category, nil
}

func (r *memRepo) ListCategoriesByTenant(_ context.Context, tenantID int64, _ shared.Pagination) ([]Category, int, error) {
	var out []Category
	for _, category := range r.categories {
		creator, ok := r.users[category.CreatedBy]
		if !ok {
			continue
		}
		if category.CreatedBy == tenantID || (creator.ownerID != nil && *creator.ownerID == tenantID) {
			out = append(out, category)
		}
	}
	return out, len(out), nil
}

func (r *memRepo) UpdateCategory(_ context.Context, category Category) (Category, error) {
	if _, ok := r.categories[category.ID]; !ok {
		return Category{}, shared.ErrNotFound
	}
	category.UpdatedAt = time.Now()
	r.categories[category.ID] = category
	return category, nil
}

func (r *memRepo) SoftDeleteCategory(_ context.Context, id int64) error {
	if _, ok := r.categories[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *memRepo) CreateProduct(_ context.Context, product Product) (Product, error) {
	for _, existing := range r.products {
		if existing.SKU == product.SKU {
			return Product{}, shared.ErrDuplicate
		}
	}
	product.ID = r.id()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.products[product.ID] = product
	return product, nil
}

func (r *memRepo) GetProductByID(_ context.Context, id int64) (Product, error) {
	product, ok := r.products[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return product, nil
}

func (r *memRepo) ListProductsByTenant(_ context.Context, tenantID int64, _ shared.Pagination) ([]Product, int, error) {
	var out []Product
	for _, product := range r.products {
		if store, ok := r.stores[product.StoreID]; ok && store.ownerID == tenantID {
			out = append(out, product)
		}
	}
	return out, len(out), nil
}

func (r *memRepo) UpdateProduct(_ context.Context, product Product) (Product, error) {
	if _, ok := r.products[product.ID]; !ok {
		return Product{}, shared.ErrNotFound
	}
	product.UpdatedAt = time.Now()
	r.products[product.ID] = product
	return product, nil
}

func (r *memRepo) SoftDeleteProduct(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memRepo) AdjustStock(_ context.Context, productID, delta int64) (Product, error) {
	product, ok := r.products[productID]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	if product.StockQty+delta < 0 {
		return Product{}, ErrNegativeStock
	}
	product.StockQty += delta
	product.UpdatedAt = time.Now()
	r.products[productID] = product
	return product, nil
}

func (r *memRepo) AddSerials(_ context.Context, productID int64, serials []string) ([]Serial, error) {
	seen := make(map[string]struct{})
	for _, existing := range r.serials[productID] {
		seen[existing.Serial] = struct{}{}
	}
	out := make([]Serial, 0, len(serials))
	for _, value := range serials {
		if _, dup := seen[value]; dup {
			return nil, shared.ErrDuplicate
		}
		seen[value] = struct{}{}
		serial := Serial{ID: r.id(), ProductID: productID, Serial: value, Status: SerialStatusAvailable, CreatedAt: time.Now()}
		r.serials[productID] = append(r.serials[productID], serial)
		out = append(out, serial)
	}
	return out, nil
}

func (r *memRepo) ListSerials(_ context.Context, productID int64) ([]Serial, error) {
	return r.serials[productID], nil
}

// authz.Directory over the same maps.
func (r *memRepo) FindUserByID(_ context.Context, id int64) (authz.UserRecord, error) {
	user, ok := r.users[id]
	if !ok {
		return authz.UserRecord{}, authz.ErrNotFound
	}
	return authz.UserRecord{ID: id, Role: user.role, OwnerID: user.ownerID}, nil
}

func (r *memRepo) FindStoreByID(_ context.Context, id int64) (authz.StoreRecord, error) {
	store, ok := r.stores[id]
	if !ok {
		return authz.StoreRecord{}, authz.ErrNotFound
	}
	return authz.StoreRecord{ID: id, OwnerID: store.ownerID}, nil
}

func (r *memRepo) FindCategoryWithCreator(ctx context.Context, id int64) (authz.CategoryRecord, error) {
	category, ok := r.categories[id]
	if !ok {
		return authz.CategoryRecord{}, authz.ErrNotFound
	}
	creator, err := r.FindUserByID(ctx, category.CreatedBy)
	if err != nil {
		return authz.CategoryRecord{}, err
	}
	return authz.CategoryRecord{
		ID:             id,
		CreatedBy:      category.CreatedBy,
		CreatorRole:    creator.Role,
		CreatorOwnerID: creator.OwnerID,
	}, nil
}

func (r *memRepo) FindProductWithStore(_ context.Context, id int64) (authz.ProductRecord, error) {
	product, ok := r.products[id]
	if !ok {
		return authz.ProductRecord{}, authz.ErrNotFound
	}
	store, ok := r.stores[product.StoreID]
	if !ok {
		return authz.ProductRecord{}, authz.ErrNotFound
	}
	return authz.ProductRecord{ID: id, StoreID: product.StoreID, StoreOwnerID: store.ownerID}, nil
}

func (r *memRepo) FindTransactionStores(context.Context, int64) (authz.TransactionEndpoints, error) {
	return authz.TransactionEndpoints{}, authz.ErrNotFound
}

func int64ptr(v int64) *int64 { return &v }

func newTestService() (*Service, *memRepo) {
	repo := newMemRepo()
	return NewService(repo, authz.NewEnforcer(authz.DefaultMatrix(), repo)), repo
}

func seedTenant(repo *memRepo, ownerID int64) (owner, admin, staff authz.Actor, storeID int64) {
	repo.users[ownerID] = memUser{role: authz.RoleOwner}
	adminID := ownerID * 10
	staffID := ownerID*10 + 1
	repo.users[adminID] = memUser{role: authz.RoleAdmin, ownerID: int64ptr(ownerID)}
	repo.users[staffID] = memUser{role: authz.RoleStaff, ownerID: int64ptr(ownerID)}
	storeID = repo.id()
	repo.stores[storeID] = memStore{ownerID: ownerID}

	owner = authz.Actor{ID: ownerID, Role: authz.RoleOwner, IsActive: true}
	admin = authz.Actor{ID: adminID, Role: authz.RoleAdmin, OwnerID: int64ptr(ownerID), IsActive: true}
	staff = authz.Actor{ID: staffID, Role: authz.RoleStaff, OwnerID: int64ptr(ownerID), IsActive: true}
	return owner, admin, staff, storeID
}

func TestProductScoping(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	owner1, admin1, _, store1 := seedTenant(repo, 1)
	owner2, _, _, _ := seedTenant(repo, 2)

	product, err := svc.CreateProduct(ctx, admin1, CreateProductInput{
		StoreID: store1, Name: "Handset", SKU: "HS-01", Price: 99.90, StockQty: 5, MinStock: 2,
	})
	require.NoError(t, err)

	_, err = svc.GetProduct(ctx, owner1, product.ID)
	require.NoError(t, err)

	_, err = svc.GetProduct(ctx, owner2, product.ID)
	require.ErrorIs(t, err, authz.ErrDenied)
	require.EqualError(t, err, "Access denied to product")

	_, err = svc.GetProduct(ctx, owner1, 999)
	require.ErrorIs(t, err, authz.ErrNotFound)
}

func TestCreateProductCrossTenantStoreRejected(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	_, admin1, _, _ := seedTenant(repo, 1)
	_, _, _, store2 := seedTenant(repo, 2)

	_, err := svc.CreateProduct(ctx, admin1, CreateProductInput{
		StoreID: store2, Name: "Handset", SKU: "HS-01",
	})
	require.ErrorIs(t, err, authz.ErrDenied)
}

func TestCategoryTenantWalk(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	owner1, admin1, staff1, _ := seedTenant(repo, 1)
	owner2, _, _, _ := seedTenant(repo, 2)

	category, err := svc.CreateCategory(ctx, admin1, CreateCategoryInput{Name: "Phones"})
	require.NoError(t, err)
	require.Equal(t, admin1.ID, category.CreatedBy)

	// Owner reaches the category through the creator's owner_id.
	_, err = svc.GetCategory(ctx, owner1, category.ID)
	require.NoError(t, err)

	_, err = svc.GetCategory(ctx, staff1, category.ID)
	require.NoError(t, err)

	_, err = svc.GetCategory(ctx, owner2, category.ID)
	require.ErrorIs(t, err, authz.ErrDenied)

	// Staff lacks CREATE_CATEGORY.
	_, err = svc.CreateCategory(ctx, staff1, CreateCategoryInput{Name: "Tablets"})
	require.EqualError(t, err, "insufficient permissions")

	list, _, err := svc.ListCategories(ctx, owner1, shared.NewPagination(1, 20, 0))
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAdjustStockGuard(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	_, admin1, staff1, store1 := seedTenant(repo, 1)

	product, err := svc.CreateProduct(ctx, admin1, CreateProductInput{
		StoreID: store1, Name: "Handset", SKU: "HS-01", StockQty: 3,
	})
	require.NoError(t, err)

	// Staff holds UPDATE_PRODUCT for exactly this workflow.
	updated, err := svc.AdjustStock(ctx, staff1, product.ID, -2)
	require.NoError(t, err)
	require.Equal(t, int64(1), updated.StockQty)

	_, err = svc.AdjustStock(ctx, staff1, product.ID, -5)
	require.ErrorIs(t, err, ErrNegativeStock)
}

func TestSerials(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	_, admin1, _, store1 := seedTenant(repo, 1)

	product, err := svc.CreateProduct(ctx, admin1, CreateProductInput{
		StoreID: store1, Name: "Handset", SKU: "HS-01", StockQty: 2,
	})
	require.NoError(t, err)

	added, err := svc.AddSerials(ctx, admin1, product.ID, []string{"IMEI-1", "IMEI-2"})
	require.NoError(t, err)
	require.Len(t, added, 2)
	require.Equal(t, SerialStatusAvailable, added[0].Status)

	_, err = svc.AddSerials(ctx, admin1, product.ID, []string{"IMEI-1"})
	require.ErrorIs(t, err, shared.ErrDuplicate)

	list, err := svc.ListSerials(ctx, admin1, product.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestDeleteProductOwnerOnly(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	owner1, admin1, _, store1 := seedTenant(repo, 1)

	product, err := svc.CreateProduct(ctx, admin1, CreateProductInput{
		StoreID: store1, Name: "Handset", SKU: "HS-01",
	})
	require.NoError(t, err)

	require.EqualError(t, svc.DeleteProduct(ctx, admin1, product.ID), "insufficient permissions")
	require.NoError(t, svc.DeleteProduct(ctx, owner1, product.ID))
	require.Empty(t, repo.products)
}
