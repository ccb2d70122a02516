package services

import (
	"context"
	"testing"

	"generate-recruit/internal/adapters/persistence/models"
	"generate-recruit/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportFixture(t *testing.T) (*ReportService, *fakeApplicationRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := newFakeApplicationRepo()
	return NewReportService(repo, client), repo, mr
}

func seedNoted(t *testing.T, repo *fakeApplicationRepo, id, email, branch, role, note string) {
	t.Helper()
	seedApplication(repo, id, email, branch, role)
	if note != "" {
		require.NoError(t, repo.AppendNote(context.Background(), &models.ApplicationNote{
			ApplicationID: id,
			AuthorEmail:   "rev@generatenu.dev",
			AuthorName:    "Reviewer",
			Content:       note,
		}))
	}
}

func TestBranchNotesGroupedByRole(t *testing.T) {
	svc, repo, _ := newReportFixture(t)
	seedNoted(t, repo, "app-1", "a@northeastern.edu", "software", "Software Engineer", "solid")
	seedNoted(t, repo, "app-2", "b@northeastern.edu", "software", "Software Engineer", "")
	seedNoted(t, repo, "app-3", "c@northeastern.edu", "software", "Chief", "lead material")
	seedNoted(t, repo, "app-4", "d@northeastern.edu", "finance", "Finance Analyst", "wrong branch")

	report, err := svc.GetBranchNotes(context.Background(), staffIdentity("rev@generatenu.dev", "software"), "software")
	require.NoError(t, err)

	assert.Equal(t, "software", report.Branch)
	require.Len(t, report.Roles, 2, "two roles in the branch")

	byRole := map[string][]ApplicantNotes{}
	for _, role := range report.Roles {
		byRole[role.Role] = role.Applicants
	}
	assert.Len(t, byRole["Software Engineer"], 2)
	assert.Len(t, byRole["Chief"], 1)

	// Applicants without notes still appear, with an empty log
	for _, applicant := range byRole["Software Engineer"] {
		if applicant.ApplicationID == "app-2" {
			assert.Empty(t, applicant.Notes)
		}
	}
}

func TestBranchNotesAuthorization(t *testing.T) {
	svc, repo, _ := newReportFixture(t)
	seedNoted(t, repo, "app-1", "a@northeastern.edu", "software", "Software Engineer", "")

	_, err := svc.GetBranchNotes(context.Background(), staffIdentity("rev@generatenu.dev", "finance"), "software")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.GetBranchNotes(context.Background(), executiveIdentity("exec@generatenu.dev"), "software")
	assert.NoError(t, err)

	_, err = svc.GetBranchNotes(context.Background(), staffIdentity("rev@generatenu.dev", "software"), "chess")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBranchNotesServedFromCache(t *testing.T) {
	svc, repo, mr := newReportFixture(t)
	seedNoted(t, repo, "app-1", "a@northeastern.edu", "software", "Software Engineer", "first")
	reviewer := staffIdentity("rev@generatenu.dev", "software")

	report, err := svc.GetBranchNotes(context.Background(), reviewer, "software")
	require.NoError(t, err)
	require.Len(t, report.Roles, 1)
	assert.True(t, mr.Exists("reports:branch-notes:software"))

	// Mutate the store behind the cache; the cached report must win
	seedNoted(t, repo, "app-2", "b@northeastern.edu", "software", "Software Engineer", "")

	report, err = svc.GetBranchNotes(context.Background(), reviewer, "software")
	require.NoError(t, err)
	assert.Len(t, report.Roles[0].Applicants, 1, "stale cache entry served until invalidated")

	// Invalidation drops the entry and the next read recomputes
	svc.InvalidateBranch(context.Background(), "software")
	assert.False(t, mr.Exists("reports:branch-notes:software"))

	report, err = svc.GetBranchNotes(context.Background(), reviewer, "software")
	require.NoError(t, err)
	assert.Len(t, report.Roles[0].Applicants, 2)
}

func TestBranchNotesWithoutCache(t *testing.T) {
	repo := newFakeApplicationRepo()
	svc := NewReportService(repo, nil)
	seedNoted(t, repo, "app-1", "a@northeastern.edu", "software", "Software Engineer", "")

	report, err := svc.GetBranchNotes(context.Background(), staffIdentity("rev@generatenu.dev", "software"), "software")
	require.NoError(t, err)
	assert.Len(t, report.Roles, 1)

	// Invalidation with no cache configured is a no-op
	svc.InvalidateBranch(context.Background(), "software")
}

func TestWriteFlowsInvalidateReportCache(t *testing.T) {
	svcReport, repo, mr := newReportFixture(t)
	seedNoted(t, repo, "app-1", "a@northeastern.edu", "software", "Software Engineer", "")
	reviewer := staffIdentity("rev@generatenu.dev", "software")

	_, err := svcReport.GetBranchNotes(context.Background(), reviewer, "software")
	require.NoError(t, err)
	require.True(t, mr.Exists("reports:branch-notes:software"))

	appSvc := NewApplicationService(repo, &fakeQuestionRepo{}, svcReport)
	_, err = appSvc.AppendNote(context.Background(), reviewer, "app-1", &NoteInput{Content: "new info"})
	require.NoError(t, err)
	assert.False(t, mr.Exists("reports:branch-notes:software"), "note append drops the cached report")

	_, err = svcReport.GetBranchNotes(context.Background(), reviewer, "software")
	require.NoError(t, err)
	require.True(t, mr.Exists("reports:branch-notes:software"))

	reviewSvc := NewReviewService(repo, svcReport)
	_, err = reviewSvc.Claim(context.Background(), reviewer, "app-1")
	require.NoError(t, err)
	assert.False(t, mr.Exists("reports:branch-notes:software"), "claim drops the cached report")
}

func TestBranchAndFunnelStats(t *testing.T) {
	svc, repo, _ := newReportFixture(t)
	seedApplication(repo, "app-1", "a@northeastern.edu", "software", "Software Engineer")
	seedApplication(repo, "app-2", "b@northeastern.edu", "software", "Software Engineer")
	seedApplication(repo, "app-3", "c@northeastern.edu", "finance", "Finance Analyst")
	exec := executiveIdentity("exec@generatenu.dev")

	funnels, err := svc.GetBranchStats(context.Background(), exec)
	require.NoError(t, err)
	require.Len(t, funnels, 2)
	for _, f := range funnels {
		switch f.Branch {
		case "software":
			assert.Equal(t, int64(2), f.Counts[string(domain.StatusSubmitted)])
		case "finance":
			assert.Equal(t, int64(1), f.Counts[string(domain.StatusSubmitted)])
		}
	}

	counts, err := svc.GetFunnelStats(context.Background(), exec)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[string(domain.StatusSubmitted)])

	// Branch reviewers don't get org-wide stats
	_, err = svc.GetBranchStats(context.Background(), staffIdentity("rev@generatenu.dev", "software"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.GetFunnelStats(context.Background(), staffIdentity("rev@generatenu.dev", "software"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestReviewerStats(t *testing.T) {
	svc, repo, _ := newReportFixture(t)
	seedApplication(repo, "app-1", "a@northeastern.edu", "software", "Software Engineer")
	seedApplication(repo, "app-2", "b@northeastern.edu", "software", "Software Engineer")
	reviewSvc := NewReviewService(repo, nil)
	r1 := staffIdentity("r1@generatenu.dev", "software")

	_, err := reviewSvc.Claim(context.Background(), r1, "app-1")
	require.NoError(t, err)
	_, err = reviewSvc.SubmitDecision(context.Background(), r1, "app-1", &DecisionInput{Decision: "accepted"})
	require.NoError(t, err)
	_, err = reviewSvc.Claim(context.Background(), r1, "app-2")
	require.NoError(t, err)
	_, err = reviewSvc.SubmitDecision(context.Background(), r1, "app-2", &DecisionInput{Decision: "rejected"})
	require.NoError(t, err)

	stats, err := svc.GetReviewerStats(context.Background(), r1, "r1@generatenu.dev")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Counts["accepted"])
	assert.Equal(t, int64(1), stats.Counts["rejected"])
	assert.Equal(t, int64(2), stats.Counts[string(domain.StatusUnderReview)])

	// Reviewers can only read their own numbers
	_, err = svc.GetReviewerStats(context.Background(), staffIdentity("r2@generatenu.dev", "software"), "r1@generatenu.dev")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Executives anyone's
	_, err = svc.GetReviewerStats(context.Background(), executiveIdentity("exec@generatenu.dev"), "r1@generatenu.dev")
	assert.NoError(t, err)
}
