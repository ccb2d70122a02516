package repositories

import (
	"context"

	"generate-recruit/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// questionRepository implements QuestionRepository
type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

// ListByRole returns the ordered question set for a (branch, role)
func (r *questionRepository) ListByRole(ctx context.Context, branch, role string) ([]*models.FormQuestion, error) {
	var questions []*models.FormQuestion
	err := r.db.WithContext(ctx).
		Where("branch = ? AND role = ?", branch, role).
		Order("display_order ASC, id ASC").
		Find(&questions).Error
	return questions, err
}

// ReplaceForRole swaps the whole question set of a (branch, role) in one
// transaction so readers never observe a partially-updated form.
func (r *questionRepository) ReplaceForRole(ctx context.Context, branch, role string, questions []models.FormQuestion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("branch = ? AND role = ?", branch, role).
			Delete(&models.FormQuestion{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].Branch = branch
			questions[i].Role = role
			questions[i].DisplayOrder = i
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}
