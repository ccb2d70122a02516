package handlers

import (
	"generate-recruit/internal/core/services"
	"generate-recruit/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RosterHandler handles roster administration endpoints. All routes
// are executive-only, enforced in the router.
type RosterHandler struct {
	rosterService *services.RosterService
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(rosterService *services.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

// List returns the full active roster
// @Summary List roster
// @Description List every active staff member
// @Tags Roster
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /roster [get]
func (h *RosterHandler) List(c *fiber.Ctx) error {
	members, err := h.rosterService.List(c.Context())
	if err != nil {
		return domainError(c, err, "Failed to list roster")
	}

	return response.Success(c, "Roster retrieved successfully", fiber.Map{
		"members": members,
	})
}

// UpsertRequest creates or updates a roster entry
type UpsertRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Branch     string `json:"branch"`
	Authorized bool   `json:"authorized"`
}

// Upsert creates or updates a roster entry
// @Summary Upsert roster entry
// @Description Create or update a staff member keyed by email
// @Tags Roster
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpsertRequest true "Roster entry"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /roster [put]
func (h *RosterHandler) Upsert(c *fiber.Ctx) error {
	var req UpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.RosterEntryInput{
		Email:      req.Email,
		Name:       req.Name,
		Role:       req.Role,
		Branch:     req.Branch,
		Authorized: req.Authorized,
	}

	member, err := h.rosterService.Upsert(c.Context(), input)
	if err != nil {
		return domainError(c, err, "Failed to update roster")
	}

	return response.Success(c, "Roster entry saved successfully", fiber.Map{
		"member": member,
	})
}

// Deactivate revokes a staff member's access
// @Summary Deactivate staff member
// @Description Remove a member from the active roster; takes effect on their next request
// @Tags Roster
// @Produce json
// @Security BearerAuth
// @Param email query string true "Staff email"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roster [delete]
func (h *RosterHandler) Deactivate(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return response.BadRequest(c, "Email is required")
	}

	if err := h.rosterService.Deactivate(c.Context(), email); err != nil {
		return domainError(c, err, "Failed to deactivate member")
	}

	return response.Success(c, "Member deactivated successfully", nil)
}
