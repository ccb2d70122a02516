package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"generate-recruit/internal/adapters/persistence/models"
	"generate-recruit/internal/adapters/persistence/repositories"
	"generate-recruit/internal/config"
	"generate-recruit/internal/core/domain"
	"generate-recruit/internal/pkg/jwt"
	"generate-recruit/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService handles authentication for both account kinds. Applicants
// self-register; staff activate an account that already exists on the
// roster. Tokens carry identity only, never authorization.
type AuthService struct {
	applicantRepo    repositories.ApplicantRepository
	rosterRepo       repositories.RosterRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	applicantRepo repositories.ApplicantRepository,
	rosterRepo repositories.RosterRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		applicantRepo:    applicantRepo,
		rosterRepo:       rosterRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// RegisterInput represents applicant registration input
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Year     string `json:"year"`
	Major    string `json:"major"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Kind     string `json:"kind"` // "applicant" (default) or "staff"
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AccountResponse is the authenticated account view
type AccountResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Account      *AccountResponse `json:"account"`
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
}

// Register registers a new applicant account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Name == "" {
		return nil, domain.ErrValidation
	}
	if !password.ValidatePassword(input.Password) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	exists, err := s.applicantRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if exists {
		return nil, domain.ErrAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	applicant := &models.Applicant{
		Email:    email,
		Name:     input.Name,
		Year:     input.Year,
		Major:    input.Major,
		Password: hashed,
	}
	if err := s.applicantRepo.Create(ctx, applicant); err != nil {
		return nil, mapStoreErr(err)
	}

	log.Printf("✅ Applicant registered: %s", email)
	return s.issueTokens(ctx, email, applicant.Name, string(domain.KindApplicant))
}

// ActivateStaffInput activates a roster account with a password
type ActivateStaffInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// ActivateStaff sets the initial password on an existing roster entry.
// The entry must have been created by an executive first; activation is
// one-shot and rejected once a password is already set.
func (s *AuthService) ActivateStaff(ctx context.Context, input *ActivateStaffInput) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !password.ValidatePassword(input.Password) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	member, err := s.rosterRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, mapStoreErr(err)
	}
	if member.Password != "" {
		return nil, domain.ErrAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.rosterRepo.SetPassword(ctx, email, hashed); err != nil {
		return nil, mapStoreErr(err)
	}

	log.Printf("✅ Staff account activated: %s", email)
	return s.issueTokens(ctx, email, member.Name, string(domain.KindStaff))
}

// Login authenticates an account of either kind
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	if input.Kind == string(domain.KindStaff) {
		member, err := s.rosterRepo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrInvalidCredentials
			}
			return nil, mapStoreErr(err)
		}
		if member.Password == "" || !password.Verify(input.Password, member.Password) {
			return nil, domain.ErrInvalidCredentials
		}

		log.Printf("✅ Staff logged in: %s", email)
		return s.issueTokens(ctx, email, member.Name, string(domain.KindStaff))
	}

	applicant, err := s.applicantRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, mapStoreErr(err)
	}
	if !password.Verify(input.Password, applicant.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	log.Printf("✅ Applicant logged in: %s", email)
	return s.issueTokens(ctx, email, applicant.Name, string(domain.KindApplicant))
}

// RefreshToken rotates a refresh token and issues a new pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	// 1. Validate refresh token JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	// 2. Find the stored token by hash
	tokenHash := password.HashToken(refreshToken)
	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, mapStoreErr(err)
	}

	// 3. Reject revoked or expired tokens
	if stored.IsRevoked() || stored.IsExpired() {
		return nil, domain.ErrUnauthenticated
	}

	// 4. Resolve the account it belongs to
	name, err := s.accountName(ctx, claims.Email, stored.Kind)
	if err != nil {
		return nil, err
	}

	// 5. Revoke the old token (rotation)
	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, mapStoreErr(err)
	}

	log.Printf("✅ Token refreshed: %s", claims.Email)
	return s.issueTokens(ctx, claims.Email, name, stored.Kind)
}

// Logout revokes one refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	tokenHash := password.HashToken(refreshToken)
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return mapStoreErr(err)
	}

	log.Printf("✅ Account logged out")
	return nil
}

// LogoutAll revokes every session of an account
func (s *AuthService) LogoutAll(ctx context.Context, email string) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	if err := s.refreshTokenRepo.RevokeAllBySubject(ctx, email); err != nil {
		return mapStoreErr(err)
	}

	log.Printf("✅ All sessions revoked: %s", email)
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// accountName looks up the display name for a subject of the given kind
func (s *AuthService) accountName(ctx context.Context, email, kind string) (string, error) {
	if kind == string(domain.KindStaff) {
		member, err := s.rosterRepo.GetByEmail(ctx, email)
		if err != nil {
			return "", domain.ErrUnauthenticated
		}
		return member.Name, nil
	}
	applicant, err := s.applicantRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", domain.ErrUnauthenticated
	}
	return applicant.Name, nil
}

// issueTokens generates a token pair and stores the refresh token hash
func (s *AuthService) issueTokens(ctx context.Context, email, name, kind string) (*AuthResponse, error) {
	accessToken, err := jwt.GenerateAccessToken(email, name, kind, s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()
	refreshToken, err := jwt.GenerateRefreshToken(email, tokenID, s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenDays)
	if err != nil {
		return nil, err
	}

	token := &models.RefreshToken{
		Subject:   email,
		Kind:      kind,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	if err := s.refreshTokenRepo.Create(ctx, token); err != nil {
		return nil, mapStoreErr(err)
	}

	return &AuthResponse{
		Account:      &AccountResponse{Email: email, Name: name, Kind: kind},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
