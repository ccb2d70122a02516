package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"generate-recruit/internal/adapters/persistence/models"
	"generate-recruit/internal/adapters/persistence/repositories"
	"generate-recruit/internal/core/domain"
	"generate-recruit/internal/pkg/pagination"
)

// ReviewService handles the reviewer-facing workflow: queue, claiming,
// decisions and history. Every mutation is anchored on the repository's
// conditional updates, so two reviewers racing on one application
// resolve to exactly one winner.
type ReviewService struct {
	appRepo     repositories.ApplicationRepository
	invalidator ReportInvalidator
}

// NewReviewService creates a new review service
func NewReviewService(appRepo repositories.ApplicationRepository, invalidator ReportInvalidator) *ReviewService {
	return &ReviewService{
		appRepo:     appRepo,
		invalidator: invalidator,
	}
}

// QueueResponse is one page of a branch's review queue
type QueueResponse struct {
	Branch       string                        `json:"branch"`
	Applications []*models.ApplicationResponse `json:"applications"`
	Meta         *pagination.Meta              `json:"meta"`
}

// GetQueue returns the branch's unclaimed, undecided applications,
// oldest submission first. An empty branch queue is a normal result.
func (s *ReviewService) GetQueue(ctx context.Context, identity *domain.Identity, branch string, params *pagination.Params) (*QueueResponse, error) {
	if !domain.IsBranch(branch) {
		return nil, fmt.Errorf("%w: unknown branch %q", domain.ErrValidation, branch)
	}
	if !identity.CanReview(branch) {
		return nil, domain.ErrUnauthorized
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	apps, total, err := s.appRepo.ListQueue(ctx, branch, params.Offset, params.Limit)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	out := make([]*models.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, app.ToResponse())
	}

	return &QueueResponse{
		Branch:       branch,
		Applications: out,
		Meta:         pagination.GetMeta(params, total),
	}, nil
}

// Claim takes exclusive review ownership of an application. First
// claim moves it to under-review; claiming something you already hold
// succeeds without side effects; claiming someone else's hold fails
// with ErrAlreadyClaimed.
func (s *ReviewService) Claim(ctx context.Context, identity *domain.Identity, id string) (*models.ApplicationResponse, error) {
	app, err := s.authorizedApp(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	if err := s.appRepo.Claim(ctx, id, identity.Email); err != nil {
		return nil, mapStoreErr(err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateBranch(ctx, app.Branch)
	}

	log.Printf("✅ Application %s claimed by %s", id, identity.Email)
	return s.reload(ctx, id)
}

// Release gives up a held claim. The application stays under-review
// and returns to the claimable pool; its first under-review timestamp
// is preserved.
func (s *ReviewService) Release(ctx context.Context, identity *domain.Identity, id string) (*models.ApplicationResponse, error) {
	app, err := s.authorizedApp(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if app.ClaimedBy == nil {
		return app.ToResponse(), nil
	}
	if *app.ClaimedBy != identity.Email && !identity.Executive() {
		return nil, domain.ErrNotClaimedByCaller
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	if err := s.appRepo.Release(ctx, id); err != nil {
		return nil, mapStoreErr(err)
	}

	log.Printf("✅ Application %s released by %s", id, identity.Email)
	return s.reload(ctx, id)
}

// DecisionInput is one decision submission
type DecisionInput struct {
	Decision string `json:"decision" validate:"required"`
	Note     string `json:"note"`
}

// SubmitDecision commits a decision on an application. Regular
// reviewers must hold the claim; executives may decide over anyone's
// claim. The status change, decision timestamp, claim clear and
// optional note land in one atomic step, after which the application
// is terminal or scheduled for interview.
func (s *ReviewService) SubmitDecision(ctx context.Context, identity *domain.Identity, id string, input *DecisionInput) (*models.ApplicationResponse, error) {
	decision, err := domain.ParseDecision(input.Decision)
	if err != nil {
		return nil, err
	}

	app, err := s.authorizedApp(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	current := domain.Status(app.Status)
	if current.Terminal() {
		return nil, domain.ErrTerminal
	}
	if !current.CanTransitionTo(decision) {
		return nil, fmt.Errorf("%w: cannot move %s application to %s", domain.ErrInvalidDecision, current, decision)
	}

	var note *models.ApplicationNote
	if input.Note != "" {
		note = &models.ApplicationNote{
			ApplicationID: id,
			AuthorEmail:   identity.Email,
			AuthorName:    identity.Name,
			Content:       input.Note,
		}
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	requireClaim := !identity.Executive()
	if err := s.appRepo.Decide(ctx, id, string(decision), identity.Email, requireClaim, note); err != nil {
		return nil, mapStoreErr(err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateBranch(ctx, app.Branch)
	}

	log.Printf("✅ Application %s decided %s by %s", id, decision, identity.Email)
	return s.reload(ctx, id)
}

// History returns the ordered status timeline of an application
func (s *ReviewService) History(ctx context.Context, identity *domain.Identity, id string) ([]*models.StatusEvent, error) {
	if _, err := s.authorizedApp(ctx, identity, id); err != nil {
		return nil, err
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	events, err := s.appRepo.ListStatusEvents(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return events, nil
}

// ReleaseStaleClaims clears claims older than the lease. Called by the
// sweeper when CLAIM_LEASE_MINUTES is set; claims never expire
// otherwise.
func (s *ReviewService) ReleaseStaleClaims(ctx context.Context, lease time.Duration) (int64, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	n, err := s.appRepo.ReleaseStale(ctx, time.Now().Add(-lease))
	if err != nil {
		return 0, mapStoreErr(err)
	}
	if n > 0 {
		log.Printf("🧹 Released %d stale claims (lease %s)", n, lease)
	}
	return n, nil
}

// authorizedApp loads the application and checks branch review rights
func (s *ReviewService) authorizedApp(ctx context.Context, identity *domain.Identity, id string) (*models.Application, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !identity.CanReview(app.Branch) {
		return nil, domain.ErrUnauthorized
	}
	return app, nil
}

// reload fetches the post-mutation state for the response
func (s *ReviewService) reload(ctx context.Context, id string) (*models.ApplicationResponse, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return app.ToResponse(), nil
}
