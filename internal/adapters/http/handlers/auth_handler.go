package handlers

import (
	"errors"
	"strings"
	"time"

	"generate-recruit/internal/adapters/http/middleware"
	"generate-recruit/internal/config"
	"generate-recruit/internal/core/domain"
	"generate-recruit/internal/core/services"
	"generate-recruit/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// RegisterRequest represents applicant registration request body
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Year     string `json:"year"`
	Major    string `json:"major"`
	Password string `json:"password"`
}

// ActivateRequest represents staff account activation request body
type ActivateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Kind     string `json:"kind"`
}

// Register handles applicant registration
// @Summary Register applicant account
// @Description Create an applicant account and return tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}
	if len(req.Password) < 8 {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	input := &services.RegisterInput{
		Email:    strings.TrimSpace(req.Email),
		Name:     strings.TrimSpace(req.Name),
		Year:     strings.TrimSpace(req.Year),
		Major:    strings.TrimSpace(req.Major),
		Password: req.Password,
	}

	result, err := h.authService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, "Invalid registration data")
		case errors.Is(err, domain.ErrStoreUnavailable):
			return response.ServiceUnavailable(c, "Service temporarily unavailable")
		default:
			return response.InternalServerError(c, "Failed to register")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Created(c, "Account registered successfully", fiber.Map{
		"access_token": result.AccessToken,
		"account":      result.Account,
	})
}

// ActivateStaff handles staff account activation
// @Summary Activate staff account
// @Description Set the initial password on an existing roster entry
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ActivateRequest true "Activation data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/activate [post]
func (h *AuthHandler) ActivateStaff(c *fiber.Ctx) error {
	var req ActivateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if len(req.Password) < 8 {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	input := &services.ActivateStaffInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}

	result, err := h.authService.ActivateStaff(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Email not found on the roster")
		case errors.Is(err, domain.ErrAlreadyExists):
			return response.Conflict(c, "Account already activated")
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, "Invalid activation data")
		case errors.Is(err, domain.ErrStoreUnavailable):
			return response.ServiceUnavailable(c, "Service temporarily unavailable")
		default:
			return response.InternalServerError(c, "Failed to activate account")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Account activated successfully", fiber.Map{
		"access_token": result.AccessToken,
		"account":      result.Account,
	})
}

// Login handles login for both account kinds
// @Summary Login
// @Description Authenticate an applicant or staff account and return tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.LoginInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Kind:     req.Kind,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid email or password")
		case errors.Is(err, domain.ErrStoreUnavailable):
			return response.ServiceUnavailable(c, "Service temporarily unavailable")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Login successful", fiber.Map{
		"access_token": result.AccessToken,
		"account":      result.Account,
	})
}

// RefreshRequest carries the refresh token for non-browser clients
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// extractRefreshToken reads the refresh token from the cookie or, for
// clients without cookie support, the request body.
func extractRefreshToken(c *fiber.Ctx) string {
	if token := c.Cookies("refresh_token"); token != "" {
		return token
	}
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return ""
	}
	return req.RefreshToken
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Rotate the refresh token and issue a new token pair. Token is read from the cookie or the request body.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest false "Refresh token (cookie fallback)"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := extractRefreshToken(c)
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token not found")
	}

	result, err := h.authService.RefreshToken(c.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Invalid refresh token, please login again")
		case errors.Is(err, domain.ErrStoreUnavailable):
			return response.ServiceUnavailable(c, "Service temporarily unavailable")
		default:
			return response.InternalServerError(c, "Failed to refresh token")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Token refreshed successfully", fiber.Map{
		"access_token": result.AccessToken,
		"account":      result.Account,
	})
}

// Logout handles logout
// @Summary Logout
// @Description Logout and revoke the refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := extractRefreshToken(c)
	if refreshToken != "" {
		_ = h.authService.Logout(c.Context(), refreshToken)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out successfully", nil)
}

// LogoutAll handles logout from all devices
// @Summary Logout from all devices
// @Description Revoke every refresh token of the account
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	if identity == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.authService.LogoutAll(c.Context(), identity.Email); err != nil {
		return response.InternalServerError(c, "Failed to logout from all devices")
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out from all devices", nil)
}

// Me returns the caller's resolved identity
// @Summary Get current identity
// @Description Get the caller's identity including roster-resolved authorization
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	if identity == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	return response.Success(c, "Identity retrieved successfully", fiber.Map{
		"identity": identity,
	})
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-1 * time.Hour),
			Secure:   h.cfg.Cookie.Secure,
			HTTPOnly: true,
			SameSite: h.cfg.Cookie.SameSite,
			Domain:   h.cfg.Cookie.Domain,
		})
	}
}
