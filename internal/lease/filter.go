package lease

import (
	"github.com/google/uuid"

	"github.com/keyper-app/keyper/internal/domain"
)

// FilterLeaseByRole projects a lease to the role-appropriate view.
// Management-tier roles and staff see the full lease; tenants and vendors
// never see internal notes, the pending-changes envelope, or the creator
// identity. The input lease is not modified.
func FilterLeaseByRole(l *domain.Lease, actor domain.Actor) *domain.Lease {
	out := *l
	if actor.Role.ManagementTier() {
		return &out
	}

	if actor.Role == domain.RoleStaff {
		return &out
	}

	out.Notes = ""
	out.PendingChanges = nil
	out.CreatedBy = uuid.Nil
	return &out
}
