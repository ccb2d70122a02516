package repositories

import (
	"context"
	"errors"
	"time"

	"generate-recruit/internal/adapters/persistence/models"
	"generate-recruit/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// applicationRepository implements ApplicationRepository on GORM/MySQL
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create inserts the application row and its submitted status event in one
// transaction. The submitted event is written exactly once, at creation.
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		event := models.StatusEvent{
			ApplicationID: app.ID,
			Status:        string(domain.StatusSubmitted),
			RecordedAt:    app.SubmittedAt,
		}
		return tx.Create(&event).Error
	})
}

// GetByID returns one application with its notes and status events
func (r *applicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("application_notes.id ASC")
		}).
		Preload("StatusEvents").
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByEmail returns all applications owned by an email, any status
func (r *applicationRepository) GetByEmail(ctx context.Context, email string) ([]*models.Application, error) {
	var apps []*models.Application
	err := r.db.WithContext(ctx).
		Preload("StatusEvents").
		Where("applicant_email = ?", email).
		Order("submitted_at DESC").
		Find(&apps).Error
	return apps, err
}

// ListQueue returns the live review queue for a branch: unclaimed,
// non-terminal, ordered by submission time ascending with id as tiebreaker
func (r *applicationRepository) ListQueue(ctx context.Context, branch string, offset, limit int) ([]*models.Application, int64, error) {
	queue := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("branch = ? AND claimed_by IS NULL AND status IN ?",
			branch, []string{string(domain.StatusSubmitted), string(domain.StatusUnderReview)}).
		Session(&gorm.Session{})

	var total int64
	if err := queue.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []*models.Application
	err := queue.
		Order("submitted_at ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&apps).Error
	return apps, total, err
}

// ListByBranch returns all branch applications with notes, for reporting
func (r *applicationRepository) ListByBranch(ctx context.Context, branch string) ([]*models.Application, error) {
	var apps []*models.Application
	err := r.db.WithContext(ctx).
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("application_notes.id ASC")
		}).
		Where("branch = ?", branch).
		Order("role ASC, submitted_at ASC").
		Find(&apps).Error
	return apps, err
}

// Claim is the one true mutual-exclusion point: a single conditional UPDATE
// guarded on claimed_by IS NULL. Two concurrent claimants cannot both see
// RowsAffected == 1, so at most one reviewer ever holds an application.
func (r *applicationRepository) Claim(ctx context.Context, id, reviewer string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		// Interview-stage rows stay at interview; only submitted moves
		// forward here.
		res := tx.Model(&models.Application{}).
			Where("id = ? AND claimed_by IS NULL AND status IN ?", id, domain.NonTerminalStatuses()).
			Updates(map[string]interface{}{
				"claimed_by": reviewer,
				"claimed_at": now,
				"status": gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END",
					string(domain.StatusSubmitted), string(domain.StatusUnderReview)),
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// Lost the conditional update; inspect the row to say why.
			var app models.Application
			if err := tx.Select("id", "status", "claimed_by").Where("id = ?", id).First(&app).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrNotFound
				}
				return err
			}
			switch {
			case app.ClaimedBy != nil && *app.ClaimedBy == reviewer:
				return nil // idempotent re-claim by the holder
			case app.ClaimedBy != nil:
				return domain.ErrAlreadyClaimed
			case domain.Status(app.Status).Terminal():
				return domain.ErrTerminal
			default:
				return domain.ErrAlreadyClaimed
			}
		}

		// First entry into under-review gets its timestamp here; the unique
		// (application_id, status) index makes re-entry after a release a
		// no-op, so the original timestamp is never overwritten.
		event := models.StatusEvent{
			ApplicationID: id,
			Status:        string(domain.StatusUnderReview),
			Actor:         reviewer,
			RecordedAt:    now,
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&event).Error
	})
}

// Release clears the claim without changing status
func (r *applicationRepository) Release(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"claimed_by": nil, "claimed_at": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Decide commits a decision atomically: conditional status update, decision
// timestamp, claim cleared, optional note appended. With requireClaim the
// update only applies while actor still holds the claim, so a concurrent
// release/re-claim cannot be overwritten by a stale reviewer.
func (r *applicationRepository) Decide(ctx context.Context, id, decision, actor string, requireClaim bool, note *models.ApplicationNote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		cond := tx.Model(&models.Application{}).
			Where("id = ? AND status IN ?", id, domain.NonTerminalStatuses())
		if requireClaim {
			cond = cond.Where("claimed_by = ?", actor)
		}

		res := cond.Updates(map[string]interface{}{
			"status":     decision,
			"claimed_by": nil,
			"claimed_at": nil,
		})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var app models.Application
			if err := tx.Select("id", "status", "claimed_by").Where("id = ?", id).First(&app).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrNotFound
				}
				return err
			}
			if domain.Status(app.Status).Terminal() {
				return domain.ErrTerminal
			}
			return domain.ErrNotClaimedByCaller
		}

		event := models.StatusEvent{
			ApplicationID: id,
			Status:        decision,
			Actor:         actor,
			RecordedAt:    now,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		if note != nil {
			note.ApplicationID = id
			if err := tx.Create(note).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AppendNote appends one note entry. A plain INSERT is already atomic:
// concurrent appends from different reviewers are both preserved.
func (r *applicationRepository) AppendNote(ctx context.Context, note *models.ApplicationNote) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", note.ApplicationID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrNotFound
	}
	return r.db.WithContext(ctx).Create(note).Error
}

// ListStatusEvents returns the ordered status history of an application
func (r *applicationRepository) ListStatusEvents(ctx context.Context, id string) ([]*models.StatusEvent, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.ErrNotFound
	}

	var events []*models.StatusEvent
	err := r.db.WithContext(ctx).
		Where("application_id = ?", id).
		Order("recorded_at ASC, id ASC").
		Find(&events).Error
	return events, err
}

// ReleaseStale clears claims held since before the cutoff
func (r *applicationRepository) ReleaseStale(ctx context.Context, olderThan time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("claimed_by IS NOT NULL AND claimed_at < ? AND status IN ?",
			olderThan, domain.NonTerminalStatuses()).
		Updates(map[string]interface{}{"claimed_by": nil, "claimed_at": nil})
	return res.RowsAffected, res.Error
}

// BranchStatusCounts returns application counts grouped by branch and status
func (r *applicationRepository) BranchStatusCounts(ctx context.Context) ([]BranchStatusCount, error) {
	var results []BranchStatusCount
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Select("branch, status, COUNT(*) as count").
		Group("branch, status").
		Find(&results).Error
	return results, err
}

// StatusCounts returns application counts grouped by status across branches
func (r *applicationRepository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var results []row
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, res := range results {
		counts[res.Status] = res.Count
	}
	return counts, nil
}

// CountEventsByActor returns status-event counts recorded by one reviewer
func (r *applicationRepository) CountEventsByActor(ctx context.Context, actor string) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var results []row
	err := r.db.WithContext(ctx).Model(&models.StatusEvent{}).
		Select("status, COUNT(*) as count").
		Where("actor = ?", actor).
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, res := range results {
		counts[res.Status] = res.Count
	}
	return counts, nil
}
