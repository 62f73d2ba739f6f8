package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequireClient rejects requests without a valid client organization in
// context. Must be chained after Auth.
func RequireClient() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid, ok := ClientIDFromContext(r.Context())
			if !ok || cid == uuid.Nil {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"valid client organization required"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
