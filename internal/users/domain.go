package users

import (
	"time"

	"github.com/shopstack/shopstack/internal/authz"
)

// User represents a staff account inside a tenant. OwnerID is nil only for
// OWNER users.
type User struct {
	ID        int64
	Email     string
	Name      string
	Role      authz.Role
	OwnerID   *int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUserInput describes a request to create a staff account.
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Role     authz.Role
}

// UpdateUserInput carries the mutable user fields. Nil means keep.
type UpdateUserInput struct {
	Name     *string
	Role     *authz.Role
	IsActive *bool
	Password *string
}
