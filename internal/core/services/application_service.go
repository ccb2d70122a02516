package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"generate-recruit/internal/adapters/persistence/models"
	"generate-recruit/internal/adapters/persistence/repositories"
	"generate-recruit/internal/core/domain"

	"github.com/google/uuid"
)

// ReportInvalidator drops cached report entries for a branch after a
// write that would change them.
type ReportInvalidator interface {
	InvalidateBranch(ctx context.Context, branch string)
}

// ApplicationService handles the applicant-facing application lifecycle
type ApplicationService struct {
	appRepo      repositories.ApplicationRepository
	questionRepo repositories.QuestionRepository
	invalidator  ReportInvalidator
}

// NewApplicationService creates a new application service
func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	questionRepo repositories.QuestionRepository,
	invalidator ReportInvalidator,
) *ApplicationService {
	return &ApplicationService{
		appRepo:      appRepo,
		questionRepo: questionRepo,
		invalidator:  invalidator,
	}
}

// SubmitInput represents a new application submission
type SubmitInput struct {
	Branch   string                 `json:"branch" validate:"required"`
	Role     string                 `json:"role" validate:"required"`
	FormData map[string]interface{} `json:"form_data" validate:"required"`
}

// Submit validates and stores a new application. The form payload is
// checked against the role's configured questions; every required
// question must carry a non-empty answer.
func (s *ApplicationService) Submit(ctx context.Context, identity *domain.Identity, input *SubmitInput) (*models.Application, error) {
	branch := strings.ToLower(strings.TrimSpace(input.Branch))
	if !domain.IsBranch(branch) {
		return nil, fmt.Errorf("%w: unknown branch %q", domain.ErrValidation, input.Branch)
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	// 1. Load the role's question set
	questions, err := s.questionRepo.ListByRole(ctx, branch, input.Role)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no open role %q in branch %q", domain.ErrNotFound, input.Role, branch)
	}

	// 2. Check required answers
	if missing := missingAnswers(questions, input.FormData); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required answers: %s", domain.ErrValidation, strings.Join(missing, ", "))
	}

	// 3. One application per (applicant, branch, role)
	existing, err := s.appRepo.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	for _, app := range existing {
		if app.Branch == branch && app.Role == input.Role {
			return nil, fmt.Errorf("%w: application already submitted for this role", domain.ErrAlreadyExists)
		}
	}

	// 4. Create
	now := time.Now()
	app := &models.Application{
		ID:             uuid.New().String(),
		ApplicantEmail: identity.Email,
		ApplicantName:  identity.Name,
		Branch:         branch,
		Role:           input.Role,
		FormData:       input.FormData,
		Status:         string(domain.StatusSubmitted),
		SubmittedAt:    now,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, mapStoreErr(err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateBranch(ctx, branch)
	}

	log.Printf("✅ Application submitted: %s → %s/%s", identity.Email, branch, input.Role)
	return app, nil
}

// missingAnswers returns the ids of required questions without a usable
// answer, in form display order.
func missingAnswers(questions []*models.FormQuestion, formData map[string]interface{}) []string {
	var missing []string
	for _, q := range questions {
		if !q.Required {
			continue
		}
		if !answered(formData[q.QuestionID]) {
			missing = append(missing, q.QuestionID)
		}
	}
	sort.Strings(missing)
	return missing
}

// answered reports whether a form value counts as an answer. Empty
// strings and explicit false checkboxes do not.
func answered(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case bool:
		return val
	default:
		return true
	}
}

// GetMine returns all applications of one applicant, newest first,
// with timestamps derived from the status event log. Having none is
// not an error.
func (s *ApplicationService) GetMine(ctx context.Context, email string) ([]*models.ApplicationResponse, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	apps, err := s.appRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	out := make([]*models.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		resp := app.ToResponse()
		resp.ClaimedBy = nil
		out = append(out, resp)
	}
	return out, nil
}

// ListByEmail returns applications for an email. Applicants may only
// list their own; staff see the subset in branches they can review.
// An unknown email returns an empty list, not an error.
func (s *ApplicationService) ListByEmail(ctx context.Context, identity *domain.Identity, email string) ([]*models.ApplicationResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = identity.Email
	}

	if identity.Kind == domain.KindApplicant {
		if !strings.EqualFold(email, identity.Email) {
			return nil, domain.ErrUnauthorized
		}
		return s.GetMine(ctx, identity.Email)
	}

	if !identity.Authorized {
		return nil, domain.ErrUnauthorized
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	apps, err := s.appRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	out := make([]*models.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		if !identity.CanReview(app.Branch) {
			continue
		}
		out = append(out, app.ToResponse())
	}
	return out, nil
}

// Get returns one application. Applicants may only read their own;
// staff need review rights over the application's branch. Notes are
// stripped from the applicant view.
func (s *ApplicationService) Get(ctx context.Context, identity *domain.Identity, id string) (*models.ApplicationResponse, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if identity.Kind == domain.KindStaff {
		if !identity.CanReview(app.Branch) {
			return nil, domain.ErrUnauthorized
		}
		return app.ToResponse(), nil
	}

	if !strings.EqualFold(app.ApplicantEmail, identity.Email) {
		return nil, domain.ErrNotFound
	}
	resp := app.ToResponse()
	resp.Notes = nil
	resp.ClaimedBy = nil
	return resp, nil
}

// NoteInput is one shared note
type NoteInput struct {
	Content string `json:"content" validate:"required"`
}

// AppendNote appends a note to the application's shared log. Notes are
// append-only; concurrent appends from different reviewers all land.
// The author's email and name are fixed into the row at write time.
func (s *ApplicationService) AppendNote(ctx context.Context, identity *domain.Identity, id string, input *NoteInput) (*models.ApplicationNote, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: note content is required", domain.ErrValidation)
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !identity.CanReview(app.Branch) {
		return nil, domain.ErrUnauthorized
	}

	note := &models.ApplicationNote{
		ApplicationID: id,
		AuthorEmail:   identity.Email,
		AuthorName:    identity.Name,
		Content:       input.Content,
	}
	if err := s.appRepo.AppendNote(ctx, note); err != nil {
		return nil, mapStoreErr(err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateBranch(ctx, app.Branch)
	}
	return note, nil
}
