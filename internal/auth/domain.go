// Package auth verifies credentials and resolves bearer tokens to actors.
// Token issuance is opaque: a random token mapped to the user id in Redis
// with a TTL. Authorization decisions themselves live in internal/authz.
package auth

import (
	"time"

	"github.com/shopstack/shopstack/internal/authz"
)

// Account is the credential projection of a user row.
type Account struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         authz.Role
	OwnerID      *int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor converts the account into the principal the engine decides for.
func (a *Account) Actor() authz.Actor {
	return authz.Actor{
		ID:       a.ID,
		Role:     a.Role,
		OwnerID:  a.OwnerID,
		IsActive: a.IsActive,
	}
}
