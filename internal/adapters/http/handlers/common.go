package handlers

import (
	"errors"

	"generate-recruit/internal/core/domain"
	"generate-recruit/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// domainError maps the error taxonomy onto HTTP responses. fallback is
// used for anything outside the taxonomy.
func domainError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return response.Unauthorized(c, "Authentication required")
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Forbidden(c, "You don't have permission to access this resource")
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrAlreadyClaimed):
		return response.Conflict(c, "Application is already claimed by another reviewer")
	case errors.Is(err, domain.ErrNotClaimedByCaller):
		return response.Forbidden(c, "You do not hold the claim on this application")
	case errors.Is(err, domain.ErrTerminal):
		return response.Conflict(c, "Application has already been decided")
	case errors.Is(err, domain.ErrInvalidDecision):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		return response.ServiceUnavailable(c, "Service temporarily unavailable, please retry")
	default:
		return response.InternalServerError(c, fallback)
	}
}
