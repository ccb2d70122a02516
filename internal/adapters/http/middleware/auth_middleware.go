package middleware

import (
	"errors"
	"strings"

	"generate-recruit/internal/config"
	"generate-recruit/internal/core/domain"
	"generate-recruit/internal/core/services"
	"generate-recruit/internal/pkg/jwt"
	"generate-recruit/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// identityKey is the locals slot holding the resolved identity
const identityKey = "identity"

// extractToken pulls the access token from the cookie or the
// Authorization header, cookie first.
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AuthMiddleware verifies the access token and resolves the caller's
// identity context. Staff authorization comes from the roster on every
// request, so a just-revoked reviewer fails here immediately.
func AuthMiddleware(cfg *config.Config, rosterService *services.RosterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		identity, err := rosterService.Resolve(c.UserContext(), claims.Email, claims.Name, domain.IdentityKind(claims.Kind))
		if err != nil {
			return response.ServiceUnavailable(c, "Identity resolution unavailable")
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// Identity returns the resolved identity set by AuthMiddleware
func Identity(c *fiber.Ctx) *domain.Identity {
	identity, _ := c.Locals(identityKey).(*domain.Identity)
	return identity
}

// RequireStaff allows only authorized staff through
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := Identity(c)
		if identity == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if identity.Kind != domain.KindStaff || !identity.Authorized {
			return response.Forbidden(c, "Reviewer access required")
		}
		return c.Next()
	}
}

// RequireExecutive allows only executives through
func RequireExecutive() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := Identity(c)
		if identity == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !identity.Executive() {
			return response.Forbidden(c, "Executive access required")
		}
		return c.Next()
	}
}

// RequireApplicant allows only applicant accounts through
func RequireApplicant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := Identity(c)
		if identity == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if identity.Kind != domain.KindApplicant {
			return response.Forbidden(c, "Applicant access required")
		}
		return c.Next()
	}
}
