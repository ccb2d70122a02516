package services

import (
	"context"
	"strings"
	"sync"
	"time"
	"testing"

	"generate-recruit/internal/adapters/persistence/models"
	"generate-recruit/internal/config"
	"generate-recruit/internal/core/domain"
	"generate-recruit/internal/pkg/jwt"
	"generate-recruit/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApplicantRepo struct {
	mu         sync.Mutex
	applicants map[string]*models.Applicant
}

func newFakeApplicantRepo() *fakeApplicantRepo {
	return &fakeApplicantRepo{applicants: make(map[string]*models.Applicant)}
}

func (f *fakeApplicantRepo) Create(_ context.Context, applicant *models.Applicant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *applicant
	f.applicants[strings.ToLower(applicant.Email)] = &cp
	return nil
}

func (f *fakeApplicantRepo) GetByEmail(_ context.Context, email string) (*models.Applicant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	applicant, ok := f.applicants[strings.ToLower(email)]
	if !ok {
		return nil, gormNotFound
	}
	cp := *applicant
	return &cp, nil
}

func (f *fakeApplicantRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.applicants[strings.ToLower(email)]
	return ok, nil
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
	nextID uint
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (f *fakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	token.ID = f.nextID
	cp := *token
	f.tokens[token.TokenHash] = &cp
	return nil
}

func (f *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[tokenHash]
	if !ok {
		return nil, gormNotFound
	}
	cp := *token
	return &cp, nil
}

func (f *fakeRefreshTokenRepo) Revoke(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, token := range f.tokens {
		if token.ID == id {
			now := time.Now()
			token.RevokedAt = &now
			return nil
		}
	}
	return gormNotFound
}

func (f *fakeRefreshTokenRepo) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[tokenHash]
	if !ok {
		return gormNotFound
	}
	now := time.Now()
	token.RevokedAt = &now
	return nil
}

func (f *fakeRefreshTokenRepo) RevokeAllBySubject(_ context.Context, subject string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, token := range f.tokens {
		if strings.EqualFold(token.Subject, subject) {
			now := time.Now()
			token.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for hash, token := range f.tokens {
		if token.IsExpired() {
			delete(f.tokens, hash)
		}
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

func newAuthFixture() (*AuthService, *fakeApplicantRepo, *fakeRosterRepo, *fakeRefreshTokenRepo) {
	applicantRepo := newFakeApplicantRepo()
	rosterRepo := newFakeRosterRepo()
	tokenRepo := newFakeRefreshTokenRepo()
	return NewAuthService(applicantRepo, rosterRepo, tokenRepo, testConfig()), applicantRepo, rosterRepo, tokenRepo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	resp, err := svc.Register(context.Background(), &RegisterInput{
		Email:    "Alice@northeastern.edu",
		Name:     "Alice",
		Year:     "2027",
		Major:    "CS",
		Password: "supersecret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@northeastern.edu", resp.Account.Email)
	assert.Equal(t, string(domain.KindApplicant), resp.Account.Kind)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// Token carries identity but no authorization fields
	claims, err := jwt.ValidateAccessToken(resp.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "alice@northeastern.edu", claims.Email)
	assert.Equal(t, string(domain.KindApplicant), claims.Kind)

	// Duplicate registration
	_, err = svc.Register(context.Background(), &RegisterInput{
		Email: "alice@northeastern.edu", Name: "Alice", Password: "supersecret1",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// Login
	_, err = svc.Login(context.Background(), &LoginInput{Email: "alice@northeastern.edu", Password: "supersecret1"})
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), &LoginInput{Email: "alice@northeastern.edu", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), &LoginInput{Email: "nobody@northeastern.edu", Password: "supersecret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), &RegisterInput{Email: "a@b.edu", Name: "A", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(context.Background(), &RegisterInput{Email: "", Name: "A", Password: "longenough1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStaffActivationAndLogin(t *testing.T) {
	svc, _, rosterRepo, _ := newAuthFixture()
	rosterRepo.members["lead@generatenu.dev"] = &models.StaffMember{
		Email: "lead@generatenu.dev", Name: "Lead", Role: "Chief",
		Branch: "software", Authorized: true, IsActive: true,
	}

	// Password rules apply to activation too
	_, err := svc.ActivateStaff(context.Background(), &ActivateStaffInput{
		Email: "lead@generatenu.dev", Password: "short",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Activation before the roster entry exists
	_, err = svc.ActivateStaff(context.Background(), &ActivateStaffInput{
		Email: "ghost@generatenu.dev", Password: "supersecret1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	resp, err := svc.ActivateStaff(context.Background(), &ActivateStaffInput{
		Email: "lead@generatenu.dev", Password: "supersecret1",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.KindStaff), resp.Account.Kind)

	// Activation is one-shot
	_, err = svc.ActivateStaff(context.Background(), &ActivateStaffInput{
		Email: "lead@generatenu.dev", Password: "another-pass1",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// Staff login uses the staff kind
	_, err = svc.Login(context.Background(), &LoginInput{
		Email: "lead@generatenu.dev", Password: "supersecret1", Kind: "staff",
	})
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), &LoginInput{
		Email: "lead@generatenu.dev", Password: "wrong", Kind: "staff",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _, _, tokenRepo := newAuthFixture()

	resp, err := svc.Register(context.Background(), &RegisterInput{
		Email: "alice@northeastern.edu", Name: "Alice", Password: "supersecret1",
	})
	require.NoError(t, err)

	// First refresh succeeds and rotates
	rotated, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)

	// The old token is revoked and cannot be replayed
	_, err = svc.RefreshToken(context.Background(), resp.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	// The rotated token still works
	_, err = svc.RefreshToken(context.Background(), rotated.RefreshToken)
	assert.NoError(t, err)

	// Garbage is rejected without touching the store
	_, err = svc.RefreshToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_ = tokenRepo
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	resp, err := svc.Register(context.Background(), &RegisterInput{
		Email: "alice@northeastern.edu", Name: "Alice", Password: "supersecret1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.RefreshToken))
	_, err = svc.RefreshToken(context.Background(), resp.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	first, err := svc.Register(context.Background(), &RegisterInput{
		Email: "alice@northeastern.edu", Name: "Alice", Password: "supersecret1",
	})
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), &LoginInput{
		Email: "alice@northeastern.edu", Password: "supersecret1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(context.Background(), "alice@northeastern.edu"))

	_, err = svc.RefreshToken(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = svc.RefreshToken(context.Background(), second.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestPasswordsAreStoredHashed(t *testing.T) {
	svc, applicantRepo, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), &RegisterInput{
		Email: "alice@northeastern.edu", Name: "Alice", Password: "supersecret1",
	})
	require.NoError(t, err)

	stored, err := applicantRepo.GetByEmail(context.Background(), "alice@northeastern.edu")
	require.NoError(t, err)
	assert.NotEqual(t, "supersecret1", stored.Password)
	assert.True(t, password.Verify("supersecret1", stored.Password))
}
