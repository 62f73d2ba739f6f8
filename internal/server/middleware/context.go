package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/keyper-app/keyper/internal/domain"
)

type contextKey string

const (
	ContextKeyClientID contextKey = "client_id"
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyUserRole contextKey = "role"
)

func ClientIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyClientID).(uuid.UUID)
	return v, ok
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok
}

func RoleFromContext(ctx context.Context) (domain.Role, bool) {
	v, ok := ctx.Value(ContextKeyUserRole).(domain.Role)
	return v, ok
}

// ActorFromContext assembles the authenticated caller from the request
// context. ok is false when any part is missing.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	clientID, ok := ClientIDFromContext(ctx)
	if !ok {
		return domain.Actor{}, false
	}
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return domain.Actor{}, false
	}
	role, ok := RoleFromContext(ctx)
	if !ok || !role.Valid() {
		return domain.Actor{}, false
	}

	return domain.Actor{ID: userID, Role: role, ClientID: clientID}, true
}
