package handlers

import (
	"generate-recruit/internal/adapters/http/middleware"
	"generate-recruit/internal/core/services"
	"generate-recruit/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles aggregated review reports
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// BranchNotes returns a branch's full review trail
// @Summary Branch notes report
// @Description All applications of a branch with their note logs, grouped by role
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param branch path string true "Branch"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /reports/branch-notes/{branch} [get]
func (h *ReportHandler) BranchNotes(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	report, err := h.reportService.GetBranchNotes(c.Context(), identity, c.Params("branch"))
	if err != nil {
		return domainError(c, err, "Failed to build report")
	}

	return response.Success(c, "Report retrieved successfully", report)
}

// BranchStats returns each branch's status breakdown
// @Summary Branch statistics
// @Description Per-branch status counts across the whole funnel
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /stats/branches [get]
func (h *ReportHandler) BranchStats(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	stats, err := h.reportService.GetBranchStats(c.Context(), identity)
	if err != nil {
		return domainError(c, err, "Failed to build statistics")
	}

	return response.Success(c, "Statistics retrieved successfully", fiber.Map{
		"branches": stats,
	})
}

// Funnel returns the org-wide status totals
// @Summary Funnel statistics
// @Description Org-wide application counts per status
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /stats/funnel [get]
func (h *ReportHandler) Funnel(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	counts, err := h.reportService.GetFunnelStats(c.Context(), identity)
	if err != nil {
		return domainError(c, err, "Failed to build statistics")
	}

	return response.Success(c, "Statistics retrieved successfully", fiber.Map{
		"counts": counts,
	})
}

// ReviewerStats returns one reviewer's activity
// @Summary Reviewer statistics
// @Description How many applications a reviewer moved into each status
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param email query string false "Reviewer email, defaults to the caller"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /stats/reviewer [get]
func (h *ReportHandler) ReviewerStats(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	stats, err := h.reportService.GetReviewerStats(c.Context(), identity, c.Query("email", identity.Email))
	if err != nil {
		return domainError(c, err, "Failed to build statistics")
	}

	return response.Success(c, "Statistics retrieved successfully", stats)
}
