package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var allActions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

var allResources = []Resource{ResourceUser, ResourceStore, ResourceCategory, ResourceProduct, ResourceTransaction}

// expectedGrants spells out the full static grant table so the exhaustive
// test below does not share construction logic with DefaultMatrix.
var expectedGrants = map[Role]map[Permission]bool{
	RoleOwner: {
		"CREATE_USER": true, "READ_USER": true, "UPDATE_USER": true, "DELETE_USER": true,
		"CREATE_STORE": true, "READ_STORE": true, "UPDATE_STORE": true, "DELETE_STORE": true,
		"CREATE_CATEGORY": true, "READ_CATEGORY": true, "UPDATE_CATEGORY": true, "DELETE_CATEGORY": true,
		"CREATE_PRODUCT": true, "READ_PRODUCT": true, "UPDATE_PRODUCT": true, "DELETE_PRODUCT": true,
		"CREATE_TRANSACTION": true, "READ_TRANSACTION": true, "UPDATE_TRANSACTION": true, "DELETE_TRANSACTION": true,
	},
	RoleAdmin: {
		"CREATE_USER": true, "READ_USER": true, "UPDATE_USER": true,
		"READ_STORE":      true,
		"CREATE_CATEGORY": true, "READ_CATEGORY": true, "UPDATE_CATEGORY": true,
		"CREATE_PRODUCT": true, "READ_PRODUCT": true, "UPDATE_PRODUCT": true,
		"CREATE_TRANSACTION": true, "READ_TRANSACTION": true, "UPDATE_TRANSACTION": true,
	},
	RoleStaff: {
		"READ_USER": true, "READ_STORE": true, "READ_CATEGORY": true,
		"READ_PRODUCT": true, "READ_TRANSACTION": true,
		"UPDATE_PRODUCT": true,
	},
	RoleCashier: {
		"READ_USER": true, "READ_STORE": true, "READ_CATEGORY": true,
		"READ_PRODUCT": true, "READ_TRANSACTION": true,
		"CREATE_TRANSACTION": true, "UPDATE_TRANSACTION": true,
	},
}

func TestDefaultMatrixExhaustive(t *testing.T) {
	m := DefaultMatrix()

	for role, expected := range expectedGrants {
		for _, action := range allActions {
			for _, resource := range allResources {
				perm := PermissionFor(action, resource)
				require.Equalf(t, expected[perm], m.Granted(role, perm),
					"role=%s perm=%s", role, perm)
			}
		}
	}
}

func TestMatrixUnknownRoleDenied(t *testing.T) {
	m := DefaultMatrix()
	for _, action := range allActions {
		for _, resource := range allResources {
			require.False(t, m.Granted("INTERN", PermissionFor(action, resource)))
		}
	}
}

func TestMatrixGrantCounts(t *testing.T) {
	m := DefaultMatrix()
	counts := map[Role]int{RoleOwner: 20, RoleAdmin: 13, RoleStaff: 6, RoleCashier: 7}
	for role, want := range counts {
		got := 0
		for _, action := range allActions {
			for _, resource := range allResources {
				if m.Granted(role, PermissionFor(action, resource)) {
					got++
				}
			}
		}
		require.Equalf(t, want, got, "role=%s", role)
	}
}

func TestNewMatrixSubstitutable(t *testing.T) {
	m := NewMatrix(map[Role][]Permission{
		RoleCashier: {PermissionFor(ActionDelete, ResourceStore)},
	})
	require.True(t, m.Granted(RoleCashier, "DELETE_STORE"))
	require.False(t, m.Granted(RoleOwner, "DELETE_STORE"))
}

func TestPermissionFor(t *testing.T) {
	require.Equal(t, Permission("UPDATE_PRODUCT"), PermissionFor(ActionUpdate, ResourceProduct))
}

func TestRoleIndex(t *testing.T) {
	cases := []struct {
		role Role
		idx  int
		ok   bool
	}{
		{RoleOwner, 0, true},
		{RoleAdmin, 1, true},
		{RoleStaff, 2, true},
		{RoleCashier, 3, true},
		{"MANAGER", 0, false},
	}
	for _, tc := range cases {
		idx, ok := RoleIndex(tc.role)
		require.Equal(t, tc.ok, ok)
		if ok {
			require.Equal(t, tc.idx, idx)
		}
	}
}
