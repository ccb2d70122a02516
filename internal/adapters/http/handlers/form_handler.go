package handlers

import (
	"generate-recruit/internal/core/services"
	"generate-recruit/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FormHandler serves and manages the per-role application forms
type FormHandler struct {
	questionService *services.QuestionService
}

// NewFormHandler creates a new form handler
func NewFormHandler(questionService *services.QuestionService) *FormHandler {
	return &FormHandler{questionService: questionService}
}

// Get returns a role's application form
// @Summary Get application form
// @Description Ordered question list for one branch role
// @Tags Forms
// @Produce json
// @Security BearerAuth
// @Param branch query string true "Branch"
// @Param role query string true "Role"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /forms/questions [get]
func (h *FormHandler) Get(c *fiber.Ctx) error {
	branch := c.Query("branch")
	role := c.Query("role")
	if branch == "" || role == "" {
		return response.BadRequest(c, "Branch and role are required")
	}

	form, err := h.questionService.GetForm(c.Context(), branch, role)
	if err != nil {
		return domainError(c, err, "Failed to load form")
	}

	return response.Success(c, "Form retrieved successfully", form)
}

// ReplaceFormRequest replaces a role's question set
type ReplaceFormRequest struct {
	Branch    string                   `json:"branch"`
	Role      string                   `json:"role"`
	Questions []services.QuestionInput `json:"questions"`
}

// Replace swaps a role's entire form
// @Summary Replace application form
// @Description Replace a role's question set in one step; executive only
// @Tags Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ReplaceFormRequest true "New question set"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /forms/questions [put]
func (h *FormHandler) Replace(c *fiber.Ctx) error {
	var req ReplaceFormRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	form, err := h.questionService.ReplaceForm(c.Context(), req.Branch, req.Role, req.Questions)
	if err != nil {
		return domainError(c, err, "Failed to replace form")
	}

	return response.Success(c, "Form replaced successfully", form)
}
