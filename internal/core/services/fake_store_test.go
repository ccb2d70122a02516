package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"generate-recruit/internal/adapters/persistence/models"
	"generate-recruit/internal/adapters/persistence/repositories"
	"generate-recruit/internal/core/domain"

	"gorm.io/gorm"
)

// gormNotFound is what the real repositories surface for missing rows
var gormNotFound = gorm.ErrRecordNotFound

// fakeApplicationRepo is an in-memory ApplicationRepository that keeps
// the same conditional-update semantics as the MySQL implementation:
// claim and decide are single guarded steps under one lock.
type fakeApplicationRepo struct {
	mu     sync.Mutex
	apps   map[string]*models.Application
	notes  []models.ApplicationNote
	events []models.StatusEvent
	nextID uint

	failAll bool // simulate a store outage
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[string]*models.Application)}
}

var errFakeDown = &fakeStoreError{}

type fakeStoreError struct{}

func (e *fakeStoreError) Error() string { return "connection refused" }

func (f *fakeApplicationRepo) Create(_ context.Context, app *models.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errFakeDown
	}
	cp := *app
	f.apps[app.ID] = &cp
	f.appendEvent(app.ID, string(domain.StatusSubmitted), "", app.SubmittedAt)
	return nil
}

func (f *fakeApplicationRepo) GetByID(_ context.Context, id string) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errFakeDown
	}
	app, ok := f.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f.snapshot(app), nil
}

func (f *fakeApplicationRepo) GetByEmail(_ context.Context, email string) ([]*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errFakeDown
	}
	var out []*models.Application
	for _, app := range f.apps {
		if strings.EqualFold(app.ApplicantEmail, email) {
			out = append(out, f.snapshot(app))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (f *fakeApplicationRepo) ListQueue(_ context.Context, branch string, offset, limit int) ([]*models.Application, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, 0, errFakeDown
	}
	var all []*models.Application
	for _, app := range f.apps {
		if app.Branch == branch && app.ClaimedBy == nil && !domain.Status(app.Status).Terminal() &&
			app.Status != string(domain.StatusInterview) {
			all = append(all, f.snapshot(app))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].SubmittedAt.Equal(all[j].SubmittedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].SubmittedAt.Before(all[j].SubmittedAt)
	})
	total := int64(len(all))
	if offset >= len(all) {
		return []*models.Application{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeApplicationRepo) ListByBranch(_ context.Context, branch string) ([]*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errFakeDown
	}
	var out []*models.Application
	for _, app := range f.apps {
		if app.Branch == branch {
			out = append(out, f.snapshot(app))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role == out[j].Role {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].Role < out[j].Role
	})
	return out, nil
}

func (f *fakeApplicationRepo) Claim(_ context.Context, id, reviewer string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errFakeDown
	}
	app, ok := f.apps[id]
	if !ok {
		return domain.ErrNotFound
	}
	if app.ClaimedBy != nil {
		if *app.ClaimedBy == reviewer {
			return nil
		}
		return domain.ErrAlreadyClaimed
	}
	if domain.Status(app.Status).Terminal() {
		return domain.ErrTerminal
	}
	now := time.Now()
	app.ClaimedBy = &reviewer
	app.ClaimedAt = &now
	if app.Status == string(domain.StatusSubmitted) {
		app.Status = string(domain.StatusUnderReview)
	}
	f.appendEvent(id, string(domain.StatusUnderReview), reviewer, now)
	return nil
}

func (f *fakeApplicationRepo) Release(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errFakeDown
	}
	app, ok := f.apps[id]
	if !ok {
		return domain.ErrNotFound
	}
	app.ClaimedBy = nil
	app.ClaimedAt = nil
	return nil
}

func (f *fakeApplicationRepo) Decide(_ context.Context, id, decision, actor string, requireClaim bool, note *models.ApplicationNote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errFakeDown
	}
	app, ok := f.apps[id]
	if !ok {
		return domain.ErrNotFound
	}
	if domain.Status(app.Status).Terminal() {
		return domain.ErrTerminal
	}
	if requireClaim && (app.ClaimedBy == nil || *app.ClaimedBy != actor) {
		return domain.ErrNotClaimedByCaller
	}
	app.Status = decision
	app.ClaimedBy = nil
	app.ClaimedAt = nil
	f.appendEvent(id, decision, actor, time.Now())
	if note != nil {
		note.ApplicationID = id
		f.insertNote(note)
	}
	return nil
}

func (f *fakeApplicationRepo) AppendNote(_ context.Context, note *models.ApplicationNote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errFakeDown
	}
	if _, ok := f.apps[note.ApplicationID]; !ok {
		return domain.ErrNotFound
	}
	f.insertNote(note)
	return nil
}

func (f *fakeApplicationRepo) ListStatusEvents(_ context.Context, id string) ([]*models.StatusEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errFakeDown
	}
	if _, ok := f.apps[id]; !ok {
		return nil, domain.ErrNotFound
	}
	var out []*models.StatusEvent
	for i := range f.events {
		if f.events[i].ApplicationID == id {
			ev := f.events[i]
			out = append(out, &ev)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) ReleaseStale(_ context.Context, olderThan time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return 0, errFakeDown
	}
	var n int64
	for _, app := range f.apps {
		if app.ClaimedBy != nil && app.ClaimedAt != nil && app.ClaimedAt.Before(olderThan) &&
			!domain.Status(app.Status).Terminal() {
			app.ClaimedBy = nil
			app.ClaimedAt = nil
			n++
		}
	}
	return n, nil
}

func (f *fakeApplicationRepo) BranchStatusCounts(_ context.Context) ([]repositories.BranchStatusCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errFakeDown
	}
	counts := make(map[[2]string]int64)
	for _, app := range f.apps {
		counts[[2]string{app.Branch, app.Status}]++
	}
	var out []repositories.BranchStatusCount
	for key, count := range counts {
		out = append(out, repositories.BranchStatusCount{Branch: key[0], Status: key[1], Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Branch == out[j].Branch {
			return out[i].Status < out[j].Status
		}
		return out[i].Branch < out[j].Branch
	})
	return out, nil
}

func (f *fakeApplicationRepo) StatusCounts(_ context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errFakeDown
	}
	counts := make(map[string]int64)
	for _, app := range f.apps {
		counts[app.Status]++
	}
	return counts, nil
}

func (f *fakeApplicationRepo) CountEventsByActor(_ context.Context, actor string) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errFakeDown
	}
	counts := make(map[string]int64)
	for _, ev := range f.events {
		if ev.Actor == actor {
			counts[ev.Status]++
		}
	}
	return counts, nil
}

// appendEvent mirrors the unique (application_id, status) index: the
// first entry for a status wins, later ones are dropped.
func (f *fakeApplicationRepo) appendEvent(id, status, actor string, at time.Time) {
	for _, ev := range f.events {
		if ev.ApplicationID == id && ev.Status == status {
			return
		}
	}
	f.nextID++
	f.events = append(f.events, models.StatusEvent{
		ID:            f.nextID,
		ApplicationID: id,
		Status:        status,
		Actor:         actor,
		RecordedAt:    at,
	})
}

func (f *fakeApplicationRepo) insertNote(note *models.ApplicationNote) {
	f.nextID++
	note.ID = f.nextID
	note.CreatedAt = time.Now()
	f.notes = append(f.notes, *note)
}

func (f *fakeApplicationRepo) snapshot(app *models.Application) *models.Application {
	cp := *app
	cp.Notes = nil
	cp.StatusEvents = nil
	for _, n := range f.notes {
		if n.ApplicationID == app.ID {
			cp.Notes = append(cp.Notes, n)
		}
	}
	for _, ev := range f.events {
		if ev.ApplicationID == app.ID {
			cp.StatusEvents = append(cp.StatusEvents, ev)
		}
	}
	return &cp
}

// ============================================================
// Fake question and roster repositories
// ============================================================

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions []models.FormQuestion
}

func (f *fakeQuestionRepo) ListByRole(_ context.Context, branch, role string) ([]*models.FormQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.FormQuestion
	for i := range f.questions {
		if f.questions[i].Branch == branch && f.questions[i].Role == role {
			q := f.questions[i]
			out = append(out, &q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (f *fakeQuestionRepo) ReplaceForRole(_ context.Context, branch, role string, questions []models.FormQuestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.questions[:0]
	for _, q := range f.questions {
		if q.Branch != branch || q.Role != role {
			kept = append(kept, q)
		}
	}
	f.questions = append(kept, questions...)
	return nil
}

type fakeRosterRepo struct {
	mu      sync.Mutex
	members map[string]*models.StaffMember
}

func newFakeRosterRepo() *fakeRosterRepo {
	return &fakeRosterRepo{members: make(map[string]*models.StaffMember)}
}

func (f *fakeRosterRepo) GetByEmail(_ context.Context, email string) (*models.StaffMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	member, ok := f.members[strings.ToLower(email)]
	if !ok || !member.IsActive {
		return nil, gormNotFound
	}
	cp := *member
	return &cp, nil
}

func (f *fakeRosterRepo) List(_ context.Context) ([]*models.StaffMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.StaffMember
	for _, m := range f.members {
		if m.IsActive {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRosterRepo) Upsert(_ context.Context, member *models.StaffMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *member
	f.members[strings.ToLower(member.Email)] = &cp
	return nil
}

func (f *fakeRosterRepo) SetPassword(_ context.Context, email, hashed string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	member, ok := f.members[strings.ToLower(email)]
	if !ok || !member.IsActive {
		return gormNotFound
	}
	member.Password = hashed
	return nil
}

func (f *fakeRosterRepo) Deactivate(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	member, ok := f.members[strings.ToLower(email)]
	if !ok {
		return gormNotFound
	}
	member.IsActive = false
	member.Authorized = false
	return nil
}

// ============================================================
// Shared test fixtures
// ============================================================

func staffIdentity(email, branch string) *domain.Identity {
	return &domain.Identity{
		Email:      email,
		Name:       "Test Reviewer",
		Kind:       domain.KindStaff,
		Role:       "Reviewer",
		Branch:     branch,
		Authorized: true,
	}
}

func executiveIdentity(email string) *domain.Identity {
	return &domain.Identity{
		Email:      email,
		Name:       "Test Executive",
		Kind:       domain.KindStaff,
		Role:       "Chief",
		Branch:     domain.BranchExecutive,
		Authorized: true,
	}
}

func applicantIdentity(email string) *domain.Identity {
	return &domain.Identity{
		Email: email,
		Name:  "Test Applicant",
		Kind:  domain.KindApplicant,
	}
}

func seedApplication(f *fakeApplicationRepo, id, email, branch, role string) *models.Application {
	app := &models.Application{
		ID:             id,
		ApplicantEmail: email,
		ApplicantName:  "Applicant " + id,
		Branch:         branch,
		Role:           role,
		FormData:       models.JSONMap{"whyGenerate": "because"},
		Status:         string(domain.StatusSubmitted),
		SubmittedAt:    time.Now().Add(-time.Hour),
	}
	_ = f.Create(context.Background(), app)
	return app
}
