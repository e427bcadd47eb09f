// Package auth models the caller identity supplied by the external identity
// provider. The platform never authenticates anyone itself; it only checks
// the role claim and ownership predicates at the operation boundary.
package auth

import "accessaudit/domain/fault"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTester   Role = "tester"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTester, RoleCustomer:
		return true
	}
	return false
}

// Identity is the authenticated caller of an operation.
type Identity struct {
	ID   string
	Name string
	Role Role
}

// Require returns a forbidden error unless the identity holds the given role.
func (i Identity) Require(role Role) error {
	if i.ID == "" {
		return fault.Unauthorized("missing caller identity")
	}
	if i.Role != role {
		return fault.Forbidden("requires role %q, caller has %q", role, i.Role)
	}
	return nil
}

// RequireOwner returns a forbidden error unless the identity holds the role
// and is the owner of the resource being acted on.
func (i Identity) RequireOwner(role Role, ownerID string) error {
	if err := i.Require(role); err != nil {
		return err
	}
	if i.ID != ownerID {
		return fault.Forbidden("caller %q does not own this resource", i.ID)
	}
	return nil
}
