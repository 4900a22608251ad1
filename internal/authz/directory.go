package authz

import "context"

// UserRecord is the ownership projection of a user row.
type UserRecord struct {
	ID       int64
	Role     Role
	OwnerID  *int64
	IsActive bool
}

// StoreRecord is the ownership projection of a store row.
type StoreRecord struct {
	ID      int64
	OwnerID int64
}

// CategoryRecord joins a category with the user that created it.
type CategoryRecord struct {
	ID             int64
	CreatedBy      int64
	CreatorRole    Role
	CreatorOwnerID *int64
}

// ProductRecord joins a product with its store's owner.
type ProductRecord struct {
	ID           int64
	StoreID      int64
	StoreOwnerID int64
}

// TransactionEndpoints holds the store endpoints of a transaction. Either
// side may be nil: a SALE has only a from-store, a transfer has both.
type TransactionEndpoints struct {
	ID          int64
	FromStoreID *int64
	ToStoreID   *int64
}

// Directory exposes the read-only ownership lookups the scope resolver
// needs. Every method excludes soft-deleted rows except FindTransactionStores
// (transactions are not soft-deletable) and returns ErrNotFound for absent
// rows. Any other error is an upstream failure and must fail the decision
// closed.
type Directory interface {
	FindUserByID(ctx context.Context, id int64) (UserRecord, error)
	FindStoreByID(ctx context.Context, id int64) (StoreRecord, error)
	FindCategoryWithCreator(ctx context.Context, id int64) (CategoryRecord, error)
	FindProductWithStore(ctx context.Context, id int64) (ProductRecord, error)
	FindTransactionStores(ctx context.Context, id int64) (TransactionEndpoints, error)
}
