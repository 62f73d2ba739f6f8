// Package lease implements the lease lifecycle governance engine: the field
// mutation policy, the two-tier update protocol (direct-apply vs.
// propose-and-approve), and the orchestrator composing them with the access
// registry and the lease state machine.
package lease

import (
	"sort"
	"strings"

	"github.com/keyper-app/keyper/internal/domain"
)

type Classification string

const (
	ClassificationBlocked    Classification = "blocked"
	ClassificationLowImpact  Classification = "low_impact"
	ClassificationHighImpact Classification = "high_impact"
)

// immutableWhenActive lists the field roots that may never change on an
// ACTIVE lease. Dotted sub-paths under a root are blocked too.
var immutableWhenActive = []string{
	"tenant_user_id",
	"property",
	"duration.start_date",
	"duration.end_date",
	"fees.monthly_rent",
	"fees.deposit",
	"fees.currency",
	"lease_type",
}

// highImpactRoots lists the roots whose change affects financial or
// contractual terms. On non-terminal statuses these route through approval
// for non-management actors even when mutable.
var highImpactRoots = []string{
	"property",
	"fees",
	"duration",
}

// Classify decides how a change set is routed given the current lease
// status. The decision is independent of the actor; actor-dependent routing
// happens in the orchestrator.
func Classify(status domain.LeaseStatus, paths []string) Classification {
	if len(BlockedPaths(status, paths)) > 0 {
		return ClassificationBlocked
	}
	if !status.Terminal() {
		for _, p := range paths {
			if underAny(p, highImpactRoots) {
				return ClassificationHighImpact
			}
		}
	}
	return ClassificationLowImpact
}

// BlockedPaths returns the changed paths that touch an immutable root on an
// ACTIVE lease, in sorted order. Empty on any other status.
func BlockedPaths(status domain.LeaseStatus, paths []string) []string {
	if status != domain.LeaseStatusActive {
		return nil
	}
	var blocked []string
	for _, p := range paths {
		if underAny(p, immutableWhenActive) {
			blocked = append(blocked, p)
		}
	}
	sort.Strings(blocked)
	return blocked
}

// underAny reports whether path equals a root or is a dotted sub-path of it,
// in either direction ("fees" touches "fees.monthly_rent" and vice versa).
func underAny(path string, roots []string) bool {
	for _, root := range roots {
		if path == root ||
			strings.HasPrefix(path, root+".") ||
			strings.HasPrefix(root, path+".") {
			return true
		}
	}
	return false
}

// FieldPaths flattens a nested change set into sorted dotted paths, e.g.
// {"fees": {"monthly_rent": 1200}} -> ["fees.monthly_rent"].
func FieldPaths(changes map[string]any) []string {
	var paths []string
	collectPaths("", changes, &paths)
	sort.Strings(paths)
	return paths
}

func collectPaths(prefix string, m map[string]any, out *[]string) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			collectPaths(path, nested, out)
			continue
		}
		*out = append(*out, path)
	}
}
