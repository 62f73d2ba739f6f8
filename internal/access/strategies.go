package access

import "github.com/keyper-app/keyper/internal/domain"

// Ownership predicates. Each is an equality check against the actor's id on
// the concrete resource type; a type mismatch denies.

func allow(domain.Actor, any) bool { return true }

func ownLease(a domain.Actor, v any) bool {
	l, ok := v.(*domain.Lease)
	return ok && l.TenantUserID == a.ID
}

func managesProperty(a domain.Actor, v any) bool {
	p, ok := v.(*domain.Property)
	return ok && p.ManagedBy(a.ID)
}

func self(a domain.Actor, v any) bool {
	u, ok := v.(*domain.User)
	return ok && u.ID == a.ID
}

func ownTenantProfile(a domain.Actor, v any) bool {
	t, ok := v.(*domain.Tenant)
	return ok && t.UserID == a.ID
}

func ownVendorProfile(a domain.Actor, v any) bool {
	vd, ok := v.(*domain.Vendor)
	return ok && vd.UserID == a.ID
}

func ownPayment(a domain.Actor, v any) bool {
	p, ok := v.(*domain.Payment)
	return ok && p.TenantUserID == a.ID
}

func ownNotification(a domain.Actor, v any) bool {
	n, ok := v.(*domain.Notification)
	return ok && n.UserID == a.ID
}

func ownReport(a domain.Actor, v any) bool {
	r, ok := v.(*domain.Report)
	return ok && r.CreatedBy == a.ID
}

func sentInvitation(a domain.Actor, v any) bool {
	inv, ok := v.(*domain.Invitation)
	return ok && inv.InvitedBy == a.ID
}

// DefaultStrategies is the production rule table, one strategy per resource
// type. Callers are already scoped to their client organization before these
// rules run; rules only decide role nuance and per-instance ownership.
func DefaultStrategies() map[Resource]Strategy {
	return map[Resource]Strategy{
		ResourceLease: {
			ActionCreate: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
			}},
			ActionRead: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
				domain.RoleStaff:   allow,
				domain.RoleTenant:  ownLease,
			}},
			ActionList: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
				domain.RoleStaff:   allow,
				domain.RoleTenant:  allow, // repository scopes the list to own leases
			}},
			ActionUpdate: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
				domain.RoleStaff:   allow,
			}},
			ActionApprove: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
			}},
			ActionDelete: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin: allow,
			}},
		},
		ResourceProperty: {
			ActionCreate: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
			}},
			// Properties are client-shared: any member of the organization
			// may read and list them, independent of role.
			ActionRead: RuleSet{Default: allow},
			ActionList: RuleSet{Default: allow},
			ActionUpdate: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: managesProperty,
			}},
			ActionDelete: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin: allow,
			}},
		},
		ResourceUser: {
			ActionCreate: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin: allow,
			}},
			ActionRead: RuleSet{
				Roles: map[domain.Role]Rule{
					domain.RoleAdmin:   allow,
					domain.RoleManager: allow,
				},
				Default: self,
			},
			ActionList: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
			}},
			ActionUpdate: RuleSet{
				Roles:   map[domain.Role]Rule{domain.RoleAdmin: allow},
				Default: self,
			},
			ActionDelete: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin: allow,
			}},
		},
		ResourceInvitation: {
			ActionCreate: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
			}},
			ActionRead: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
				domain.RoleStaff:   sentInvitation,
			}},
			ActionList: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
			}},
			ActionDelete: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: sentInvitation,
			}},
		},
		ResourceVendor: {
			ActionCreate: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
			}},
			ActionRead: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
				domain.RoleStaff:   allow,
				domain.RoleVendor:  ownVendorProfile,
			}},
			ActionList: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
				domain.RoleStaff:   allow,
			}},
			ActionUpdate: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:  allow,
				domain.RoleVendor: ownVendorProfile,
			}},
			ActionDelete: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin: allow,
			}},
		},
		ResourceTenant: {
			ActionCreate: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
				domain.RoleStaff:   allow,
			}},
			ActionRead: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
				domain.RoleStaff:   allow,
				domain.RoleTenant:  ownTenantProfile,
			}},
			ActionList: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
				domain.RoleStaff:   allow,
			}},
			ActionUpdate: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
				domain.RoleTenant:  ownTenantProfile,
			}},
			ActionDelete: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin: allow,
			}},
		},
		ResourcePayment: {
			ActionCreate: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
				domain.RoleStaff:   allow,
			}},
			ActionRead: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
				domain.RoleStaff:   allow,
				domain.RoleTenant:  ownPayment,
			}},
			ActionList: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
				domain.RoleStaff:   allow,
				domain.RoleTenant:  allow, // repository scopes to own payments
			}},
			ActionUpdate: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
			}},
			ActionDelete: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin: allow,
			}},
		},
		ResourceNotification: {
			// Notifications are personal: every role reads and resolves only
			// its own, admins can inspect everything.
			ActionRead: RuleSet{
				Roles:   map[domain.Role]Rule{domain.RoleAdmin: allow},
				Default: ownNotification,
			},
			ActionList:   RuleSet{Default: allow}, // repository scopes to recipient
			ActionUpdate: RuleSet{Default: ownNotification},
			ActionDelete: RuleSet{Default: ownNotification},
		},
		ResourceReport: {
			ActionCreate: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
			}},
			ActionRead: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
				domain.RoleStaff:   ownReport,
			}},
			ActionList: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
			}},
			ActionDelete: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin: allow,
			}},
		},
		ResourceClient: {
			ActionRead: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin:   allow,
				domain.RoleManager: allow,
			}},
			ActionUpdate: RuleSet{Roles: map[domain.Role]Rule{
				domain.RoleAdmin: allow,
			}},
		},
	}
}
