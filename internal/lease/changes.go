package lease

import (
	"encoding/json"
	"fmt"

	"github.com/keyper-app/keyper/internal/domain"
)

// foreignKeyFields are reference fields where an empty string would corrupt
// a lookup. Sanitizing turns "" into an explicit unset (JSON null) so the
// persisted document ends up without the field, never with "".
var foreignKeyFields = map[string]struct{}{
	"property_id":    {},
	"unit_id":        {},
	"tenant_user_id": {},
	"manager_id":     {},
	"created_by":     {},
}

// protectedFields are managed exclusively by the orchestrator and silently
// dropped from incoming change sets.
var protectedFields = map[string]struct{}{
	"id":              {},
	"client_id":       {},
	"created_by":      {},
	"created_at":      {},
	"updated_at":      {},
	"deleted_at":      {},
	"pending_changes": {},
}

func stripProtected(changes map[string]any) map[string]any {
	out := make(map[string]any, len(changes))
	for k, v := range changes {
		if _, skip := protectedFields[k]; skip {
			continue
		}
		out[k] = v
	}
	return out
}

// Sanitize returns a copy of the change set with empty-string foreign-key
// values converted to nil (field-unset). Nested maps are sanitized
// recursively; the input is not modified.
func Sanitize(changes map[string]any) map[string]any {
	out := make(map[string]any, len(changes))
	for k, v := range changes {
		if nested, ok := v.(map[string]any); ok {
			out[k] = Sanitize(nested)
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			if _, fk := foreignKeyFields[k]; fk {
				out[k] = nil
				continue
			}
		}
		out[k] = v
	}
	return out
}

// applyChanges merges a sanitized change set into a copy of the lease via
// its JSON representation and returns the candidate. Nil values delete the
// field; nested maps merge key-wise. The input lease is not modified.
func applyChanges(l *domain.Lease, changes map[string]any) (*domain.Lease, error) {
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("lease.applyChanges: marshal: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("lease.applyChanges: unmarshal: %w", err)
	}

	mergeInto(doc, changes)

	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("lease.applyChanges: marshal merged: %w", err)
	}

	var out domain.Lease
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, fmt.Errorf("lease.applyChanges: invalid change set: %w: %v", domain.ErrValidation, err)
	}

	return &out, nil
}

func mergeInto(base map[string]any, changes map[string]any) {
	for k, v := range changes {
		if v == nil {
			delete(base, k)
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			if existing, ok := base[k].(map[string]any); ok {
				mergeInto(existing, nested)
				continue
			}
			cp := make(map[string]any, len(nested))
			mergeInto(cp, nested)
			base[k] = cp
			continue
		}
		base[k] = v
	}
}
