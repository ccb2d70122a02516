package services

import (
	"context"
	"errors"
	"strings"

	"generate-recruit/internal/adapters/persistence/models"
	"generate-recruit/internal/adapters/persistence/repositories"
	"generate-recruit/internal/core/domain"

	"gorm.io/gorm"
)

// RosterService resolves caller identity against the staff roster.
// Authorization is looked up on every request so that revoking a
// reviewer in the roster takes effect immediately; nothing here is
// cached and nothing authorization-related rides inside the token.
type RosterService struct {
	rosterRepo repositories.RosterRepository
}

// NewRosterService creates a new roster service
func NewRosterService(rosterRepo repositories.RosterRepository) *RosterService {
	return &RosterService{rosterRepo: rosterRepo}
}

// Resolve builds the identity context for a verified token subject.
// Applicants resolve directly from their claims. Staff are matched
// against the roster by email (case-insensitive); a staff token whose
// email is missing from the roster resolves to an unauthorized staff
// identity, not an error, so handlers return 403 rather than 401.
func (s *RosterService) Resolve(ctx context.Context, email, name string, kind domain.IdentityKind) (*domain.Identity, error) {
	identity := &domain.Identity{
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  name,
		Kind:  kind,
	}

	if kind != domain.KindStaff {
		return identity, nil
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	member, err := s.rosterRepo.GetByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return identity, nil
		}
		return nil, mapStoreErr(err)
	}

	identity.Role = member.Role
	identity.Branch = member.Branch
	identity.Authorized = member.Authorized
	return identity, nil
}

// AuthorizeBranch checks that the identity may review the given branch.
// Executives clear every branch; everyone else only their own.
func (s *RosterService) AuthorizeBranch(identity *domain.Identity, branch string) error {
	if identity == nil || identity.Kind != domain.KindStaff {
		return domain.ErrUnauthorized
	}
	if !identity.CanReview(branch) {
		return domain.ErrUnauthorized
	}
	return nil
}

// ============================================================
// Roster administration (executive only, enforced by handlers)
// ============================================================

// RosterEntryInput is one roster row to create or update
type RosterEntryInput struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required"`
	Role       string `json:"role" validate:"required"`
	Branch     string `json:"branch" validate:"required"`
	Authorized bool   `json:"authorized"`
}

// List returns the full roster
func (s *RosterService) List(ctx context.Context) ([]*models.StaffMember, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	members, err := s.rosterRepo.List(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return members, nil
}

// Upsert creates or updates a roster entry by email
func (s *RosterService) Upsert(ctx context.Context, input *RosterEntryInput) (*models.StaffMember, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Name == "" || input.Role == "" {
		return nil, domain.ErrValidation
	}
	if !domain.IsBranch(input.Branch) && input.Branch != domain.BranchExecutive {
		return nil, domain.ErrValidation
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	member := &models.StaffMember{
		Email:      email,
		Name:       input.Name,
		Role:       input.Role,
		Branch:     input.Branch,
		Authorized: input.Authorized,
		IsActive:   true,
	}
	if err := s.rosterRepo.Upsert(ctx, member); err != nil {
		return nil, mapStoreErr(err)
	}
	return member, nil
}

// Deactivate revokes a staff member's access. Takes effect on their
// next request since authorization is resolved per request.
func (s *RosterService) Deactivate(ctx context.Context, email string) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	return mapStoreErr(s.rosterRepo.Deactivate(ctx, strings.ToLower(strings.TrimSpace(email))))
}
