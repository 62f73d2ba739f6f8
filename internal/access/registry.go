// Package access implements the role/action/resource authorization strategy
// layer. Every resource type registers one strategy: a per-action table of
// role-specific rules with an optional default. Resolution is role rule,
// then default rule, then deny. Unknown resource types and unregistered
// actions also deny — a caller must never learn whether a resource/action
// combination exists.
package access

import "github.com/keyper-app/keyper/internal/domain"

type Resource string

const (
	ResourceLease        Resource = "lease"
	ResourceProperty     Resource = "property"
	ResourceUser         Resource = "user"
	ResourceInvitation   Resource = "invitation"
	ResourceVendor       Resource = "vendor"
	ResourceTenant       Resource = "tenant"
	ResourcePayment      Resource = "payment"
	ResourceNotification Resource = "notification"
	ResourceReport       Resource = "report"
	ResourceClient       Resource = "client"
)

type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionList    Action = "list"
	ActionApprove Action = "approve"
)

// Rule is a pure predicate over the caller and a candidate resource
// instance. Rules are data loaded once at construction, never mutated.
type Rule func(actor domain.Actor, instance any) bool

// RuleSet holds the rules for one action on one resource type. Roles maps
// role-specific rules; Default applies when the caller's role has no entry.
type RuleSet struct {
	Roles   map[domain.Role]Rule
	Default Rule
}

// Strategy maps actions to rule sets for a single resource type.
type Strategy map[Action]RuleSet

// Registry resolves authorization decisions. It is immutable after
// construction and intended to be injected into services, not shared as a
// package-level singleton.
type Registry struct {
	strategies map[Resource]Strategy
}

// NewRegistry builds a registry from explicit strategy tables. Tests pass
// fixture tables; production wiring uses DefaultStrategies.
func NewRegistry(strategies map[Resource]Strategy) *Registry {
	return &Registry{strategies: strategies}
}

// CanAccess reports whether the actor may perform the action on the given
// resource instance. Missing resource, action, and rule all resolve to deny.
func (r *Registry) CanAccess(actor domain.Actor, resource Resource, action Action, instance any) bool {
	strategy, ok := r.strategies[resource]
	if !ok {
		return false
	}

	rs, ok := strategy[action]
	if !ok {
		return false
	}

	if rule, ok := rs.Roles[actor.Role]; ok {
		return rule(actor, instance)
	}
	if rs.Default != nil {
		return rs.Default(actor, instance)
	}

	return false
}
