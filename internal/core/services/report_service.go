package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"generate-recruit/internal/adapters/persistence/models"
	"generate-recruit/internal/adapters/persistence/repositories"
	"generate-recruit/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

// reportCacheTTL bounds how stale a cached branch report can get even
// if an invalidation is missed.
const reportCacheTTL = 5 * time.Minute

// ReportService aggregates review notes and funnel statistics for
// branch leadership. Reports are read-through cached in Redis when a
// client is configured; with a nil client every call computes fresh.
type ReportService struct {
	appRepo repositories.ApplicationRepository
	cache   *redis.Client
}

// NewReportService creates a new report service
func NewReportService(appRepo repositories.ApplicationRepository, cache *redis.Client) *ReportService {
	return &ReportService{
		appRepo: appRepo,
		cache:   cache,
	}
}

// ============================================================
// Branch notes report
// ============================================================

// ApplicantNotes is one applicant's aggregated review trail
type ApplicantNotes struct {
	ApplicationID  string                   `json:"application_id"`
	ApplicantEmail string                   `json:"applicant_email"`
	ApplicantName  string                   `json:"applicant_name"`
	Status         string                   `json:"status"`
	Notes          []models.ApplicationNote `json:"notes"`
}

// RoleNotes groups a role's applicants with their notes
type RoleNotes struct {
	Role       string           `json:"role"`
	Applicants []ApplicantNotes `json:"applicants"`
}

// BranchNotesReport is the full per-branch review trail, grouped by role
type BranchNotesReport struct {
	Branch      string      `json:"branch"`
	Roles       []RoleNotes `json:"roles"`
	GeneratedAt time.Time   `json:"generated_at"`
}

func branchNotesKey(branch string) string {
	return "reports:branch-notes:" + branch
}

// GetBranchNotes returns every application of a branch with its full
// note log, grouped by role. Served from cache when fresh.
func (s *ReportService) GetBranchNotes(ctx context.Context, identity *domain.Identity, branch string) (*BranchNotesReport, error) {
	if !domain.IsBranch(branch) {
		return nil, fmt.Errorf("%w: unknown branch %q", domain.ErrValidation, branch)
	}
	if !identity.CanReview(branch) {
		return nil, domain.ErrUnauthorized
	}

	if cached := s.cachedReport(ctx, branchNotesKey(branch)); cached != nil {
		return cached, nil
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	apps, err := s.appRepo.ListByBranch(ctx, branch)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	report := buildBranchNotes(branch, apps)
	s.storeReport(ctx, branchNotesKey(branch), report)
	return report, nil
}

// buildBranchNotes groups applications by role, preserving the
// repository's role-then-submission ordering.
func buildBranchNotes(branch string, apps []*models.Application) *BranchNotesReport {
	report := &BranchNotesReport{
		Branch:      branch,
		Roles:       []RoleNotes{},
		GeneratedAt: time.Now(),
	}

	for _, app := range apps {
		entry := ApplicantNotes{
			ApplicationID:  app.ID,
			ApplicantEmail: app.ApplicantEmail,
			ApplicantName:  app.ApplicantName,
			Status:         app.Status,
			Notes:          app.Notes,
		}
		if entry.Notes == nil {
			entry.Notes = []models.ApplicationNote{}
		}

		if n := len(report.Roles); n > 0 && report.Roles[n-1].Role == app.Role {
			report.Roles[n-1].Applicants = append(report.Roles[n-1].Applicants, entry)
			continue
		}
		report.Roles = append(report.Roles, RoleNotes{
			Role:       app.Role,
			Applicants: []ApplicantNotes{entry},
		})
	}
	return report
}

// cachedReport returns a cached report or nil. Cache misses and cache
// errors both fall through to a fresh computation.
func (s *ReportService) cachedReport(ctx context.Context, key string) *BranchNotesReport {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}

	var report BranchNotesReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil
	}
	return &report
}

func (s *ReportService) storeReport(ctx context.Context, key string, report *BranchNotesReport) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, reportCacheTTL).Err(); err != nil {
		log.Printf("⚠️ Report cache write failed for %s: %v", key, err)
	}
}

// InvalidateBranch drops the branch's cached report after a write.
// Cache failures are ignored since the TTL bounds staleness anyway.
func (s *ReportService) InvalidateBranch(ctx context.Context, branch string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, branchNotesKey(branch)).Err(); err != nil {
		log.Printf("⚠️ Report cache invalidation failed for %s: %v", branch, err)
	}
}

// ============================================================
// Funnel & reviewer statistics
// ============================================================

// BranchFunnel is the status breakdown of one branch
type BranchFunnel struct {
	Branch string           `json:"branch"`
	Counts map[string]int64 `json:"counts"`
}

// GetBranchStats returns every branch's status breakdown. Executive only.
func (s *ReportService) GetBranchStats(ctx context.Context, identity *domain.Identity) ([]BranchFunnel, error) {
	if !identity.Executive() {
		return nil, domain.ErrUnauthorized
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	rows, err := s.appRepo.BranchStatusCounts(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	index := make(map[string]int)
	funnels := []BranchFunnel{}
	for _, row := range rows {
		i, ok := index[row.Branch]
		if !ok {
			i = len(funnels)
			index[row.Branch] = i
			funnels = append(funnels, BranchFunnel{Branch: row.Branch, Counts: map[string]int64{}})
		}
		funnels[i].Counts[row.Status] = row.Count
	}
	return funnels, nil
}

// GetFunnelStats returns the org-wide status totals. Executive only.
func (s *ReportService) GetFunnelStats(ctx context.Context, identity *domain.Identity) (map[string]int64, error) {
	if !identity.Executive() {
		return nil, domain.ErrUnauthorized
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	counts, err := s.appRepo.StatusCounts(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return counts, nil
}

// ReviewerStatsResponse are one reviewer's recorded status transitions
type ReviewerStatsResponse struct {
	Reviewer string           `json:"reviewer"`
	Counts   map[string]int64 `json:"counts"`
}

// GetReviewerStats returns how many applications a reviewer moved into
// each status. Reviewers may read their own; executives anyone's.
func (s *ReportService) GetReviewerStats(ctx context.Context, identity *domain.Identity, reviewer string) (*ReviewerStatsResponse, error) {
	if identity.Kind != domain.KindStaff || !identity.Authorized {
		return nil, domain.ErrUnauthorized
	}
	if reviewer != identity.Email && !identity.Executive() {
		return nil, domain.ErrUnauthorized
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	counts, err := s.appRepo.CountEventsByActor(ctx, reviewer)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return &ReviewerStatsResponse{Reviewer: reviewer, Counts: counts}, nil
}
