package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopstack/shopstack/internal/authz"
	"github.com/shopstack/shopstack/internal/shared"
)

type memRepo struct {
	stores map[int64]Store
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{stores: make(map[int64]Store)}
}

func (r *memRepo) Create(_ context.Context, store Store) (Store, error) {
	r.nextID++
	store.ID = r.nextID
	store.CreatedAt = time.Now()
	store.UpdatedAt = store.CreatedAt
	r.stores[store.ID] = store
	return store, nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (Store, error) {
	store, ok := r.stores[id]
	if !ok {
		return Store{}, shared.ErrNotFound
	}
	return store, nil
}

func (r *memRepo) ListByTenant(_ context.Context, tenantID int64, _ shared.Pagination) ([]Store, int, error) {
	var out []Store
	for _, store := range r.stores {
		if store.OwnerID == tenantID {
			out = append(out, store)
		}
	}
	return out, len(out), nil
}

func (r *memRepo) Update(_ context.Context, store Store) (Store, error) {
	if _, ok := r.stores[store.ID]; !ok {
		return Store{}, shared.ErrNotFound
	}
	store.UpdatedAt = time.Now()
	r.stores[store.ID] = store
	return store, nil
}

func (r *memRepo) SoftDelete(_ context.Context, id int64) error {
	if _, ok := r.stores[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.stores, id)
	return nil
}

// authz.Directory over the same store map.
func (r *memRepo) FindUserByID(context.Context, int64) (authz.UserRecord, error) {
	return authz.UserRecord{}, authz.ErrNotFound
}

func (r *memRepo) FindStoreByID(_ context.Context, id int64) (authz.StoreRecord, error) {
	store, ok := r.stores[id]
	if !ok {
		return authz.StoreRecord{}, authz.ErrNotFound
	}
	return authz.StoreRecord{ID: store.ID, OwnerID: store.OwnerID}, nil
}

func (r *memRepo) FindCategoryWithCreator(context.Context, int64) (authz.CategoryRecord, error) {
	return authz.CategoryRecord{}, authz.ErrNotFound
}

func (r *memRepo) FindProductWithStore(context.Context, int64) (authz.ProductRecord, error) {
	return authz.ProductRecord{}, authz.ErrNotFound
}

func (r *memRepo) FindTransactionStores(context.Context, int64) (authz.TransactionEndpoints, error) {
	return authz.TransactionEndpoints{}, authz.ErrNotFound
}

func int64ptr(v int64) *int64 { return &v }

func newTestService() (*Service, *memRepo) {
	repo := newMemRepo()
	return NewService(repo, authz.NewEnforcer(authz.DefaultMatrix(), repo)), repo
}

func TestCreateStoreOwnerOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner := authz.Actor{ID: 1, Role: authz.RoleOwner, IsActive: true}
	admin := authz.Actor{ID: 10, Role: authz.RoleAdmin, OwnerID: int64ptr(1), IsActive: true}

	store, err := svc.Create(ctx, owner, CreateStoreInput{Name: "Main Street"})
	require.NoError(t, err)
	require.Equal(t, int64(1), store.OwnerID)

	_, err = svc.Create(ctx, admin, CreateStoreInput{Name: "Back Alley"})
	require.EqualError(t, err, "insufficient permissions")
}

func TestStoreScoping(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	owner1 := authz.Actor{ID: 1, Role: authz.RoleOwner, IsActive: true}
	owner2 := authz.Actor{ID: 2, Role: authz.RoleOwner, IsActive: true}
	staff1 := authz.Actor{ID: 11, Role: authz.RoleStaff, OwnerID: int64ptr(1), IsActive: true}

	created, err := svc.Create(ctx, owner1, CreateStoreInput{Name: "Main Street"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, owner1, created.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, staff1, created.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, owner2, created.ID)
	require.ErrorIs(t, err, authz.ErrDenied)

	_, err = svc.Get(ctx, owner1, 999)
	require.ErrorIs(t, err, authz.ErrNotFound)

	require.Len(t, repo.stores, 1)
}

func TestUpdateAndDeleteStore(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	owner := authz.Actor{ID: 1, Role: authz.RoleOwner, IsActive: true}
	staff := authz.Actor{ID: 11, Role: authz.RoleStaff, OwnerID: int64ptr(1), IsActive: true}

	created, err := svc.Create(ctx, owner, CreateStoreInput{Name: "Main Street"})
	require.NoError(t, err)

	name := "Renamed"
	_, err = svc.Update(ctx, staff, created.ID, UpdateStoreInput{Name: &name})
	require.EqualError(t, err, "insufficient permissions")

	updated, err := svc.Update(ctx, owner, created.ID, UpdateStoreInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)

	require.EqualError(t, svc.Delete(ctx, staff, created.ID), "insufficient permissions")
	require.NoError(t, svc.Delete(ctx, owner, created.ID))
	require.Empty(t, repo.stores)
}
