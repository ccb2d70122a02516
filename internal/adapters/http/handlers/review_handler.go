package handlers

import (
	"generate-recruit/internal/adapters/http/middleware"
	"generate-recruit/internal/core/services"
	"generate-recruit/internal/pkg/pagination"
	"generate-recruit/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles the reviewer workflow endpoints
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Queue returns a branch's review queue
// @Summary Get review queue
// @Description List a branch's unclaimed, undecided applications, oldest first
// @Tags Review
// @Produce json
// @Security BearerAuth
// @Param branch path string true "Branch"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /review/queue/{branch} [get]
func (h *ReviewHandler) Queue(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	params := pagination.GetParams(c)

	queue, err := h.reviewService.GetQueue(c.Context(), identity, c.Params("branch"), params)
	if err != nil {
		return domainError(c, err, "Failed to load queue")
	}

	return response.Success(c, "Queue retrieved successfully", queue)
}

// Claim claims an application for review
// @Summary Claim application
// @Description Take exclusive review ownership; first claim moves the application under review
// @Tags Review
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /review/claim/{id} [post]
func (h *ReviewHandler) Claim(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	app, err := h.reviewService.Claim(c.Context(), identity, c.Params("id"))
	if err != nil {
		return domainError(c, err, "Failed to claim application")
	}

	return response.Success(c, "Application claimed successfully", fiber.Map{
		"application": app,
	})
}

// Release releases a held claim
// @Summary Release claim
// @Description Return a claimed application to the pool; it stays under review
// @Tags Review
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /review/release/{id} [post]
func (h *ReviewHandler) Release(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	app, err := h.reviewService.Release(c.Context(), identity, c.Params("id"))
	if err != nil {
		return domainError(c, err, "Failed to release application")
	}

	return response.Success(c, "Application released successfully", fiber.Map{
		"application": app,
	})
}

// DecisionRequest represents a decision submission
type DecisionRequest struct {
	Decision string `json:"decision"`
	Note     string `json:"note"`
}

// Decide commits a decision
// @Summary Submit decision
// @Description Move the application to interview, accepted or rejected; claim required unless executive
// @Tags Review
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body DecisionRequest true "Decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /review/decision/{id} [post]
func (h *ReviewHandler) Decide(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	var req DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Decision == "" {
		return response.BadRequest(c, "Decision is required")
	}

	input := &services.DecisionInput{
		Decision: req.Decision,
		Note:     req.Note,
	}

	app, err := h.reviewService.SubmitDecision(c.Context(), identity, c.Params("id"), input)
	if err != nil {
		return domainError(c, err, "Failed to submit decision")
	}

	return response.Success(c, "Decision recorded successfully", fiber.Map{
		"application": app,
	})
}

// History returns an application's status timeline
// @Summary Get status history
// @Description List the status events of an application in order
// @Tags Review
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /review/history/{id} [get]
func (h *ReviewHandler) History(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	events, err := h.reviewService.History(c.Context(), identity, c.Params("id"))
	if err != nil {
		return domainError(c, err, "Failed to load history")
	}

	return response.Success(c, "History retrieved successfully", fiber.Map{
		"events": events,
	})
}
