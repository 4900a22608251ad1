package authz

import "context"

// Stable denial reason strings. These are part of the API contract; tests
// and clients match on them.
const (
	reasonInsufficientPermissions = "insufficient permissions"
	reasonInsufficientRole        = "insufficient role privileges"
	reasonStaffCannotCreateUsers  = "Staff and cashier cannot create users"
	reasonAdminOnlyStaff          = "Admin can only create STAFF users"
	reasonCashierOnlySale         = "Cashier can only create SALE transactions"
)

// Enforcer is the single entry point request handling code calls for
// authorization decisions. Every Enforce method either returns nil or fails
// with a typed denial; scope checks may instead fail with NotFoundError
// before any scope decision is made.
type Enforcer struct {
	matrix Matrix
	scope  *Scope
}

// NewEnforcer builds an Enforcer over the given matrix and directory.
func NewEnforcer(matrix Matrix, dir Directory) *Enforcer {
	return &Enforcer{matrix: matrix, scope: NewScope(dir)}
}

// Scope exposes the underlying resolver for callers that need the raw
// boolean answer.
func (e *Enforcer) Scope() *Scope { return e.scope }

// HasPermission reports whether the actor's role statically grants the
// permission.
func (e *Enforcer) HasPermission(actor Actor, perm Permission) bool {
	return e.matrix.Granted(actor.Role, perm)
}

// HasResourceAccess reports whether the actor may perform action on the
// resource type at all.
func (e *Enforcer) HasResourceAccess(actor Actor, resource Resource, action Action) bool {
	return e.HasPermission(actor, PermissionFor(action, resource))
}

// EnforcePermission fails unless the actor holds the permission.
func (e *Enforcer) EnforcePermission(actor Actor, perm Permission) error {
	if !e.HasPermission(actor, perm) {
		return Denied(reasonInsufficientPermissions)
	}
	return nil
}

// EnforceResourceAccess fails unless the actor may perform action on the
// resource type.
func (e *Enforcer) EnforceResourceAccess(actor Actor, resource Resource, action Action) error {
	if !e.HasResourceAccess(actor, resource, action) {
		return Denied(reasonInsufficientPermissions)
	}
	return nil
}

// EnforceOwnerScope fails unless ownerID is the actor's tenant.
func (e *Enforcer) EnforceOwnerScope(actor Actor, ownerID int64) error {
	if !e.scope.CheckOwnerScope(actor, ownerID) {
		return Denied("Access denied")
	}
	return nil
}

// EnforceUserAccess fails unless the target user is within the actor's
// tenant. Returns NotFoundError when the target does not exist.
func (e *Enforcer) EnforceUserAccess(ctx context.Context, actor Actor, userID int64) error {
	ok, err := e.scope.CheckUserAccess(ctx, actor, userID)
	if err != nil {
		return err
	}
	if !ok {
		return Denied("Access denied to user")
	}
	return nil
}

// EnforceStoreAccess fails unless the store is within the actor's tenant.
func (e *Enforcer) EnforceStoreAccess(ctx context.Context, actor Actor, storeID int64) error {
	ok, err := e.scope.CheckStoreAccess(ctx, actor, storeID)
	if err != nil {
		return err
	}
	if !ok {
		return Denied("Access denied to store")
	}
	return nil
}

// EnforceCategoryAccess fails unless the category is within the actor's
// tenant.
func (e *Enforcer) EnforceCategoryAccess(ctx context.Context, actor Actor, categoryID int64) error {
	ok, err := e.scope.CheckCategoryAccess(ctx, actor, categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return Denied("Access denied to category")
	}
	return nil
}

// EnforceProductAccess fails unless the product is within the actor's
// tenant.
func (e *Enforcer) EnforceProductAccess(ctx context.Context, actor Actor, productID int64) error {
	ok, err := e.scope.CheckProductAccess(ctx, actor, productID)
	if err != nil {
		return err
	}
	if !ok {
		return Denied("Access denied to product")
	}
	return nil
}

// EnforceTransactionAccess fails unless an endpoint store of the transaction
// is within the actor's tenant.
func (e *Enforcer) EnforceTransactionAccess(ctx context.Context, actor Actor, transactionID int64) error {
	ok, err := e.scope.CheckTransactionAccess(ctx, actor, transactionID)
	if err != nil {
		return err
	}
	if !ok {
		return Denied("Access denied to transaction")
	}
	return nil
}

// EnforceRoleHierarchy fails unless the actor may manage users of the target
// role: OWNER targets any role, ADMIN targets only STAFF, STAFF and CASHIER
// target no one. Unknown actor roles are denied.
func (e *Enforcer) EnforceRoleHierarchy(actor Actor, target Role) error {
	switch actor.Role {
	case RoleOwner:
		return nil
	case RoleAdmin:
		if target == RoleStaff {
			return nil
		}
		return Denied(reasonAdminOnlyStaff)
	}
	return Denied(reasonInsufficientRole)
}

// EnforceMinimumRole fails unless the actor's role sits at or above the
// given minimum in the authority ordering. Unknown roles on either side are
// denied.
func (e *Enforcer) EnforceMinimumRole(actor Actor, minimum Role) error {
	actorIdx, ok := RoleIndex(actor.Role)
	if !ok {
		return Denied(reasonInsufficientRole)
	}
	minIdx, ok := RoleIndex(minimum)
	if !ok {
		return Denied(reasonInsufficientRole)
	}
	if actorIdx > minIdx {
		return Denied(reasonInsufficientRole)
	}
	return nil
}

// EnforceTransactionType restricts CASHIER actors to SALE transactions.
// Every other role may use any type.
func (e *Enforcer) EnforceTransactionType(actor Actor, txType TransactionType) error {
	if actor.Role == RoleCashier && txType != TransactionTypeSale {
		return Denied(reasonCashierOnlySale)
	}
	return nil
}

// EnforceUserCreation runs the full gate sequence for creating a user with
// the given role: the STAFF/CASHIER blanket ban first, then the role
// hierarchy, then the static permission.
func (e *Enforcer) EnforceUserCreation(actor Actor, targetRole Role) error {
	if actor.Role == RoleStaff || actor.Role == RoleCashier {
		return Denied(reasonStaffCannotCreateUsers)
	}
	if err := e.EnforceRoleHierarchy(actor, targetRole); err != nil {
		return err
	}
	return e.EnforceResourceAccess(actor, ResourceUser, ActionCreate)
}

// EnforceUserRoleChange gates updating a user's role. ADMIN may only keep or
// assign STAFF; OWNER may assign anything.
func (e *Enforcer) EnforceUserRoleChange(actor Actor, newRole Role) error {
	return e.EnforceRoleHierarchy(actor, newRole)
}
