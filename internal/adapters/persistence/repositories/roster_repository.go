package repositories

import (
	"context"
	"errors"

	"generate-recruit/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// rosterRepository implements RosterRepository
type rosterRepository struct {
	db *gorm.DB
}

// NewRosterRepository creates a new roster repository
func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &rosterRepository{db: db}
}

// GetByEmail returns an active roster entry by email
func (r *rosterRepository) GetByEmail(ctx context.Context, email string) (*models.StaffMember, error) {
	var member models.StaffMember
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", email, true).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// List returns all active roster entries ordered by branch then name
func (r *rosterRepository) List(ctx context.Context) ([]*models.StaffMember, error) {
	var members []*models.StaffMember
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("branch ASC, name ASC").
		Find(&members).Error
	return members, err
}

// Upsert creates or updates a roster entry keyed by email
func (r *rosterRepository) Upsert(ctx context.Context, member *models.StaffMember) error {
	var existing models.StaffMember
	err := r.db.WithContext(ctx).Where("email = ?", member.Email).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(member).Error
	}
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"name":       member.Name,
		"role":       member.Role,
		"branch":     member.Branch,
		"authorized": member.Authorized,
		"is_active":  member.IsActive,
	}
	if member.Password != "" {
		updates["password"] = member.Password
	}
	if err := r.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return err
	}
	member.ID = existing.ID
	return nil
}

// SetPassword stores a new password hash for a roster entry
func (r *rosterRepository) SetPassword(ctx context.Context, email, hashed string) error {
	res := r.db.WithContext(ctx).Model(&models.StaffMember{}).
		Where("email = ? AND is_active = ?", email, true).
		Update("password", hashed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate removes a member from the active roster without deleting history
func (r *rosterRepository) Deactivate(ctx context.Context, email string) error {
	res := r.db.WithContext(ctx).Model(&models.StaffMember{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{"is_active": false, "authorized": false})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
