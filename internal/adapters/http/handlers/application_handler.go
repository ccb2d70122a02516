package handlers

import (
	"generate-recruit/internal/adapters/http/middleware"
	"generate-recruit/internal/core/services"
	"generate-recruit/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles applicant-facing application endpoints
type ApplicationHandler struct {
	appService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// SubmitRequest represents an application submission
type SubmitRequest struct {
	Branch   string                 `json:"branch"`
	Role     string                 `json:"role"`
	FormData map[string]interface{} `json:"form_data"`
}

// Submit handles a new application
// @Summary Submit application
// @Description Submit an application for a branch role; required questions must be answered
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitRequest true "Application payload"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Branch == "" || req.Role == "" {
		return response.BadRequest(c, "Branch and role are required")
	}
	if len(req.FormData) == 0 {
		return response.BadRequest(c, "Form data is required")
	}

	input := &services.SubmitInput{
		Branch:   req.Branch,
		Role:     req.Role,
		FormData: req.FormData,
	}

	app, err := h.appService.Submit(c.Context(), identity, input)
	if err != nil {
		return domainError(c, err, "Failed to submit application")
	}

	return response.Created(c, "Application submitted successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// List lists applications by applicant email
// @Summary List applications by email
// @Description List applications with status timestamps, newest first. Applicants list their own; staff any email in branches they review. Empty list when none exist.
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param email query string false "Applicant email (defaults to the caller)"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	apps, err := h.appService.ListByEmail(c.Context(), identity, c.Query("email"))
	if err != nil {
		return domainError(c, err, "Failed to list applications")
	}

	return response.Success(c, "Applications retrieved successfully", fiber.Map{
		"applications": apps,
	})
}

// Get returns one application
// @Summary Get application
// @Description Get one application; applicants see their own, staff their branch's
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	app, err := h.appService.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return domainError(c, err, "Failed to retrieve application")
	}

	return response.Success(c, "Application retrieved successfully", fiber.Map{
		"application": app,
	})
}

// NoteRequest represents one shared review note
type NoteRequest struct {
	Content string `json:"content"`
}

// AppendNote appends a shared review note
// @Summary Append review note
// @Description Append a note to the application's shared log; notes are never updated or deleted
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body NoteRequest true "Note content"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/notes [post]
func (h *ApplicationHandler) AppendNote(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	var req NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	note, err := h.appService.AppendNote(c.Context(), identity, c.Params("id"), &services.NoteInput{Content: req.Content})
	if err != nil {
		return domainError(c, err, "Failed to append note")
	}

	return response.Created(c, "Note appended successfully", fiber.Map{
		"note": note,
	})
}
