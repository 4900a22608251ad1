// Package authz implements the authorization and multi-tenant scoping engine.
//
// Every decision combines a static role/permission matrix, an ownership
// scoping walk that resolves each resource back to its tenant, and a small
// set of role-specific business rules. The engine only reads state; it never
// mutates it.
package authz

// Role is one of the closed, ordered set of staff roles. Index 0 carries the
// highest authority.
type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleAdmin   Role = "ADMIN"
	RoleStaff   Role = "STAFF"
	RoleCashier Role = "CASHIER"
)

// roleOrder lists roles by decreasing authority.
var roleOrder = []Role{RoleOwner, RoleAdmin, RoleStaff, RoleCashier}

// RoleIndex returns the position of the role in the authority ordering.
// Unknown roles report ok=false and are denied everywhere.
func RoleIndex(role Role) (int, bool) {
	for i, r := range roleOrder {
		if r == role {
			return i, true
		}
	}
	return 0, false
}

// Roles returns the role set ordered by decreasing authority.
func Roles() []Role {
	out := make([]Role, len(roleOrder))
	copy(out, roleOrder)
	return out
}

// Action enumerates the coarse operations a permission can grant.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Resource enumerates the protected resource types.
type Resource string

const (
	ResourceUser        Resource = "USER"
	ResourceStore       Resource = "STORE"
	ResourceCategory    Resource = "CATEGORY"
	ResourceProduct     Resource = "PRODUCT"
	ResourceTransaction Resource = "TRANSACTION"
)

// Permission is an atomic capability of the form ACTION_RESOURCE. It
// expresses capability only; instance scope is the resolver's job.
type Permission string

// PermissionFor builds the canonical permission name for a resource action.
func PermissionFor(action Action, resource Resource) Permission {
	return Permission(string(action) + "_" + string(resource))
}

// TransactionType enumerates supported retail transactions.
type TransactionType string

const (
	TransactionTypeSale     TransactionType = "SALE"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// Actor is the authenticated principal a decision is made for. OwnerID is
// nil only for OWNER actors; every other role carries the id of the OWNER
// whose tenant it belongs to.
type Actor struct {
	ID       int64
	Role     Role
	OwnerID  *int64
	IsActive bool
}

// TenantID resolves the tenant the actor belongs to. An OWNER is its own
// tenant; everyone else inherits the tenant of their owner. ok is false when
// a non-owner actor has no owner recorded, which denies all scoped access.
func (a Actor) TenantID() (int64, bool) {
	if a.Role == RoleOwner {
		return a.ID, true
	}
	if a.OwnerID != nil {
		return *a.OwnerID, true
	}
	return 0, false
}
