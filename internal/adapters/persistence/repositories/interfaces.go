package repositories

import (
	"context"
	"time"

	"generate-recruit/internal/adapters/persistence/models"
)

// BranchStatusCount is one row of the per-branch status breakdown
type BranchStatusCount struct {
	Branch string `json:"branch"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ApplicationRepository defines the application store interface.
// Claim and Decide are the two linearization points of the review workflow:
// both are single conditional updates scoped by application id.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	GetByEmail(ctx context.Context, email string) ([]*models.Application, error)

	// ListQueue returns unclaimed, non-terminal applications for a branch,
	// ordered oldest submission first (id breaks ties). Snapshot read.
	ListQueue(ctx context.Context, branch string, offset, limit int) ([]*models.Application, int64, error)
	ListByBranch(ctx context.Context, branch string) ([]*models.Application, error)

	// Claim atomically sets claimed_by if and only if the application is
	// unclaimed and non-terminal; the submitted→under-review transition is
	// part of the same atomic step. Re-claiming by the same reviewer is a
	// no-op success. Fails with domain.ErrAlreadyClaimed, domain.ErrTerminal
	// or domain.ErrNotFound.
	Claim(ctx context.Context, id, reviewer string) error
	Release(ctx context.Context, id string) error

	// Decide atomically commits a decision: status set, decision event
	// recorded, claim cleared, optional note appended. When requireClaim is
	// set the update only applies while the claim is held by actor.
	Decide(ctx context.Context, id, decision, actor string, requireClaim bool, note *models.ApplicationNote) error

	AppendNote(ctx context.Context, note *models.ApplicationNote) error
	ListStatusEvents(ctx context.Context, id string) ([]*models.StatusEvent, error)

	// ReleaseStale clears claims older than the cutoff without touching
	// status; used by the optional claim-lease sweeper.
	ReleaseStale(ctx context.Context, olderThan time.Time) (int64, error)

	BranchStatusCounts(ctx context.Context) ([]BranchStatusCount, error)
	StatusCounts(ctx context.Context) (map[string]int64, error)
	CountEventsByActor(ctx context.Context, actor string) (map[string]int64, error)
}

// RosterRepository defines read/write access to the staff directory
type RosterRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.StaffMember, error)
	List(ctx context.Context) ([]*models.StaffMember, error)
	Upsert(ctx context.Context, member *models.StaffMember) error
	SetPassword(ctx context.Context, email, hashed string) error
	Deactivate(ctx context.Context, email string) error
}

// ApplicantRepository defines applicant account access
type ApplicantRepository interface {
	Create(ctx context.Context, applicant *models.Applicant) error
	GetByEmail(ctx context.Context, email string) (*models.Applicant, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// QuestionRepository defines access to the role question configuration
type QuestionRepository interface {
	ListByRole(ctx context.Context, branch, role string) ([]*models.FormQuestion, error)
	ReplaceForRole(ctx context.Context, branch, role string, questions []models.FormQuestion) error
}

// RefreshTokenRepository defines refresh token storage
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllBySubject(ctx context.Context, subject string) error
	DeleteExpired(ctx context.Context) error
}
