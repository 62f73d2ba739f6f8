package v1

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/keyper-app/keyper/internal/domain"
)

// mapDomainError converts governance failures into HTTP problem responses,
// preserving the specific reason so clients can branch on cause.
func mapDomainError(err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound("lease not found")
	case errors.Is(err, domain.ErrForbidden):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, domain.ErrConflict):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, domain.ErrValidation):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		return huma.Error500InternalServerError(fallback, err)
	}
}
