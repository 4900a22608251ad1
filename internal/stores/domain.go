package stores

import "time"

// Store is a physical or online retail location owned by one tenant.
type Store struct {
	ID        int64
	OwnerID   int64
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateStoreInput describes a request to open a store.
type CreateStoreInput struct {
	Name    string
	Address string
}

// UpdateStoreInput carries the mutable store fields. Nil means keep.
type UpdateStoreInput struct {
	Name    *string
	Address *string
}
