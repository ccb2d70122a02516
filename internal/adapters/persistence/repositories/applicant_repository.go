package repositories

import (
	"context"

	"generate-recruit/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// applicantRepository implements ApplicantRepository
type applicantRepository struct {
	db *gorm.DB
}

// NewApplicantRepository creates a new applicant repository
func NewApplicantRepository(db *gorm.DB) ApplicantRepository {
	return &applicantRepository{db: db}
}

// Create creates a new applicant account
func (r *applicantRepository) Create(ctx context.Context, applicant *models.Applicant) error {
	return r.db.WithContext(ctx).Create(applicant).Error
}

// GetByEmail gets an applicant by email
func (r *applicantRepository) GetByEmail(ctx context.Context, email string) (*models.Applicant, error) {
	var applicant models.Applicant
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&applicant).Error
	if err != nil {
		return nil, err
	}
	return &applicant, nil
}

// ExistsByEmail checks if an applicant email is taken
func (r *applicantRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Applicant{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}
