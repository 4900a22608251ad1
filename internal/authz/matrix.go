package authz

// Matrix maps roles to their statically granted permissions. A Matrix is
// built once and never mutated afterwards, so concurrent reads need no
// synchronization. Unknown roles resolve to the empty set.
type Matrix map[Role]map[Permission]struct{}

// NewMatrix builds an immutable Matrix from per-role grant lists.
func NewMatrix(grants map[Role][]Permission) Matrix {
	m := make(Matrix, len(grants))
	for role, perms := range grants {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		m[role] = set
	}
	return m
}

// Granted reports whether the role statically holds the permission.
func (m Matrix) Granted(role Role, perm Permission) bool {
	set, ok := m[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// DefaultMatrix returns the production permission matrix.
//
// OWNER holds full CRUD on every resource. ADMIN manages users (except
// delete), catalog data (except delete) and transactions (except delete),
// but only reads stores. STAFF reads everything and may update products for
// stock workflows. CASHIER reads everything and creates/updates
// transactions; creation is further restricted to SALE by the enforcement
// layer.
func DefaultMatrix() Matrix {
	readAll := []Permission{
		PermissionFor(ActionRead, ResourceUser),
		PermissionFor(ActionRead, ResourceStore),
		PermissionFor(ActionRead, ResourceCategory),
		PermissionFor(ActionRead, ResourceProduct),
		PermissionFor(ActionRead, ResourceTransaction),
	}

	ownerGrants := make([]Permission, 0, 20)
	for _, action := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete} {
		for _, resource := range []Resource{ResourceUser, ResourceStore, ResourceCategory, ResourceProduct, ResourceTransaction} {
			ownerGrants = append(ownerGrants, PermissionFor(action, resource))
		}
	}

	adminGrants := []Permission{
		PermissionFor(ActionCreate, ResourceUser),
		PermissionFor(ActionRead, ResourceUser),
		PermissionFor(ActionUpdate, ResourceUser),
		PermissionFor(ActionRead, ResourceStore),
		PermissionFor(ActionCreate, ResourceCategory),
		PermissionFor(ActionRead, ResourceCategory),
		PermissionFor(ActionUpdate, ResourceCategory),
		PermissionFor(ActionCreate, ResourceProduct),
		PermissionFor(ActionRead, ResourceProduct),
		PermissionFor(ActionUpdate, ResourceProduct),
		PermissionFor(ActionCreate, ResourceTransaction),
		PermissionFor(ActionRead, ResourceTransaction),
		PermissionFor(ActionUpdate, ResourceTransaction),
	}

	staffGrants := append(append([]Permission{}, readAll...),
		PermissionFor(ActionUpdate, ResourceProduct),
	)

	cashierGrants := append(append([]Permission{}, readAll...),
		PermissionFor(ActionCreate, ResourceTransaction),
		PermissionFor(ActionUpdate, ResourceTransaction),
	)

	return NewMatrix(map[Role][]Permission{
		RoleOwner:   ownerGrants,
		RoleAdmin:   adminGrants,
		RoleStaff:   staffGrants,
		RoleCashier: cashierGrants,
	})
}
