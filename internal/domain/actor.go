package domain

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
	RoleTenant  Role = "tenant"
	RoleVendor  Role = "vendor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff, RoleTenant, RoleVendor:
		return true
	default:
		return false
	}
}

// ManagementTier reports whether the role bypasses the approval gate for
// high-impact lease changes.
func (r Role) ManagementTier() bool {
	return r == RoleAdmin || r == RoleManager
}

// Actor is the authenticated caller in the context of one client
// organization. It is constructed per request and never persisted.
type Actor struct {
	ID       uuid.UUID
	Role     Role
	ClientID uuid.UUID
}
