package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type memDirectory struct {
	users        map[int64]UserRecord
	stores       map[int64]StoreRecord
	categories   map[int64]CategoryRecord
	products     map[int64]ProductRecord
	transactions map[int64]TransactionEndpoints

	failWith error
}

func newMemDirectory() *memDirectory {
	return &memDirectory{
		users:        make(map[int64]UserRecord),
		stores:       make(map[int64]StoreRecord),
		categories:   make(map[int64]CategoryRecord),
		products:     make(map[int64]ProductRecord),
		transactions: make(map[int64]TransactionEndpoints),
	}
}

func (d *memDirectory) FindUserByID(_ context.Context, id int64) (UserRecord, error) {
	if d.failWith != nil {
		return UserRecord{}, d.failWith
	}
	rec, ok := d.users[id]
	if !ok {
		return UserRecord{}, ErrNotFound
	}
	return rec, nil
}

func (d *memDirectory) FindStoreByID(_ context.Context, id int64) (StoreRecord, error) {
	if d.failWith != nil {
		return StoreRecord{}, d.failWith
	}
	rec, ok := d.stores[id]
	if !ok {
		return StoreRecord{}, ErrNotFound
	}
	return rec, nil
}

func (d *memDirectory) FindCategoryWithCreator(_ context.Context, id int64) (CategoryRecord, error) {
	if d.failWith != nil {
		return CategoryRecord{}, d.failWith
	}
	rec, ok := d.categories[id]
	if !ok {
		return CategoryRecord{}, ErrNotFound
	}
	return rec, nil
}

func (d *memDirectory) FindProductWithStore(_ context.Context, id int64) (ProductRecord, error) {
	if d.failWith != nil {
		return ProductRecord{}, d.failWith
	}
	rec, ok := d.products[id]
	if !ok {
		return ProductRecord{}, ErrNotFound
	}
	return rec, nil
}

func (d *memDirectory) FindTransactionStores(_ context.Context, id int64) (TransactionEndpoints, error) {
	if d.failWith != nil {
		return TransactionEndpoints{}, d.failWith
	}
	rec, ok := d.transactions[id]
	if !ok {
		return TransactionEndpoints{}, ErrNotFound
	}
	return rec, nil
}

func int64ptr(v int64) *int64 { return &v }

func ownerActor(id int64) Actor {
	return Actor{ID: id, Role: RoleOwner, IsActive: true}
}

func staffActor(id, ownerID int64, role Role) Actor {
	return Actor{ID: id, Role: role, OwnerID: int64ptr(ownerID), IsActive: true}
}

func TestCheckOwnerScope(t *testing.T) {
	scope := NewScope(newMemDirectory())

	require.True(t, scope.CheckOwnerScope(ownerActor(1), 1))
	require.False(t, scope.CheckOwnerScope(ownerActor(1), 2))

	admin := staffActor(10, 1, RoleAdmin)
	require.True(t, scope.CheckOwnerScope(admin, 1))
	require.False(t, scope.CheckOwnerScope(admin, 2))

	// Non-owner actors without an owner recorded match no tenant.
	orphan := Actor{ID: 11, Role: RoleStaff, IsActive: true}
	require.False(t, scope.CheckOwnerScope(orphan, 1))
	require.False(t, scope.CheckOwnerScope(orphan, 11))
}

func TestCheckUserAccess(t *testing.T) {
	dir := newMemDirectory()
	dir.users[1] = UserRecord{ID: 1, Role: RoleOwner, IsActive: true}
	dir.users[2] = UserRecord{ID: 2, Role: RoleOwner, IsActive: true}
	dir.users[10] = UserRecord{ID: 10, Role: RoleAdmin, OwnerID: int64ptr(1), IsActive: true}
	dir.users[11] = UserRecord{ID: 11, Role: RoleStaff, OwnerID: int64ptr(1), IsActive: true}
	dir.users[20] = UserRecord{ID: 20, Role: RoleStaff, OwnerID: int64ptr(2), IsActive: true}
	scope := NewScope(dir)
	ctx := context.Background()

	cases := []struct {
		name   string
		actor  Actor
		target int64
		want   bool
	}{
		{"owner reads own staff", ownerActor(1), 11, true},
		{"owner reads itself", ownerActor(1), 1, true},
		{"owner denied other tenant staff", ownerActor(1), 20, false},
		{"owner denied other owner", ownerActor(1), 2, false},
		{"admin reads same tenant", staffActor(10, 1, RoleAdmin), 11, true},
		{"admin denied other tenant", staffActor(10, 1, RoleAdmin), 20, false},
		{"staff denied owner record", staffActor(11, 1, RoleStaff), 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := scope.CheckUserAccess(ctx, tc.actor, tc.target)
			require.NoError(t, err)
			require.Equal(t, tc.want, ok)
		})
	}
}

func TestCheckCategoryAccess(t *testing.T) {
	dir := newMemDirectory()
	// Category 100 created by owner 1 directly, 101 by owner 1's admin,
	// 102 inside tenant 2.
	dir.categories[100] = CategoryRecord{ID: 100, CreatedBy: 1, CreatorRole: RoleOwner}
	dir.categories[101] = CategoryRecord{ID: 101, CreatedBy: 10, CreatorRole: RoleAdmin, CreatorOwnerID: int64ptr(1)}
	dir.categories[102] = CategoryRecord{ID: 102, CreatedBy: 20, CreatorRole: RoleAdmin, CreatorOwnerID: int64ptr(2)}
	scope := NewScope(dir)
	ctx := context.Background()

	ok, err := scope.CheckCategoryAccess(ctx, ownerActor(1), 100)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = scope.CheckCategoryAccess(ctx, ownerActor(1), 101)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = scope.CheckCategoryAccess(ctx, ownerActor(1), 102)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = scope.CheckCategoryAccess(ctx, staffActor(11, 1, RoleStaff), 101)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = scope.CheckCategoryAccess(ctx, staffActor(21, 2, RoleStaff), 101)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCheckProductAccess(t *testing.T) {
	dir := newMemDirectory()
	dir.stores[1] = StoreRecord{ID: 1, OwnerID: 1}
	dir.stores[2] = StoreRecord{ID: 2, OwnerID: 2}
	dir.products[500] = ProductRecord{ID: 500, StoreID: 1, StoreOwnerID: 1}
	scope := NewScope(dir)
	ctx := context.Background()

	ok, err := scope.CheckProductAccess(ctx, ownerActor(1), 500)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = scope.CheckProductAccess(ctx, ownerActor(2), 500)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = scope.CheckProductAccess(ctx, staffActor(10, 1, RoleAdmin), 500)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = scope.CheckProductAccess(ctx, staffActor(20, 2, RoleAdmin), 500)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCheckTransactionAccess(t *testing.T) {
	dir := newMemDirectory()
	dir.stores[1] = StoreRecord{ID: 1, OwnerID: 1}
	dir.stores[2] = StoreRecord{ID: 2, OwnerID: 2}
	dir.transactions[900] = TransactionEndpoints{ID: 900, FromStoreID: int64ptr(1)}
	dir.transactions[901] = TransactionEndpoints{ID: 901, FromStoreID: int64ptr(1), ToStoreID: int64ptr(2)}
	dir.transactions[902] = TransactionEndpoints{ID: 902}
	scope := NewScope(dir)
	ctx := context.Background()

	ok, err := scope.CheckTransactionAccess(ctx, ownerActor(1), 900)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = scope.CheckTransactionAccess(ctx, ownerActor(2), 900)
	require.NoError(t, err)
	require.False(t, ok)

	// Either endpoint suffices.
	ok, err = scope.CheckTransactionAccess(ctx, ownerActor(2), 901)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = scope.CheckTransactionAccess(ctx, staffActor(30, 3, RoleCashier), 901)
	require.NoError(t, err)
	require.False(t, ok)

	// No endpoints means visible to no one.
	ok, err = scope.CheckTransactionAccess(ctx, ownerActor(1), 902)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNotFoundPrecedence(t *testing.T) {
	scope := NewScope(newMemDirectory())
	ctx := context.Background()
	actors := []Actor{ownerActor(1), staffActor(10, 1, RoleAdmin), staffActor(11, 1, RoleStaff), staffActor(12, 1, RoleCashier)}

	for _, actor := range actors {
		_, err := scope.CheckUserAccess(ctx, actor, 999)
		require.ErrorIs(t, err, ErrNotFound)
		require.NotErrorIs(t, err, ErrDenied)

		_, err = scope.CheckStoreAccess(ctx, actor, 999)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = scope.CheckCategoryAccess(ctx, actor, 999)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = scope.CheckProductAccess(ctx, actor, 999)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = scope.CheckTransactionAccess(ctx, actor, 999)
		require.ErrorIs(t, err, ErrNotFound)
	}
}

func TestLookupFailurePropagates(t *testing.T) {
	dir := newMemDirectory()
	dir.failWith = errors.New("connection reset")
	scope := NewScope(dir)
	ctx := context.Background()

	_, err := scope.CheckProductAccess(ctx, ownerActor(1), 500)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrDenied)
}

func TestScopeIdempotent(t *testing.T) {
	dir := newMemDirectory()
	dir.stores[1] = StoreRecord{ID: 1, OwnerID: 1}
	dir.products[500] = ProductRecord{ID: 500, StoreID: 1, StoreOwnerID: 1}
	scope := NewScope(dir)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ok, err := scope.CheckProductAccess(ctx, ownerActor(1), 500)
		require.NoError(t, err)
		require.True(t, ok)
	}
}
