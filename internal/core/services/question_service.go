package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"generate-recruit/internal/adapters/persistence/models"
	"generate-recruit/internal/adapters/persistence/repositories"
	"generate-recruit/internal/core/domain"
)

// validQuestionTypes are the answer widgets the form renderer supports
var validQuestionTypes = map[string]bool{
	"text":     true,
	"textarea": true,
	"boolean":  true,
	"select":   true,
	"file":     true,
}

// QuestionService serves and manages the per-role application forms
type QuestionService struct {
	questionRepo repositories.QuestionRepository
}

// NewQuestionService creates a new question service
func NewQuestionService(questionRepo repositories.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// FormResponse is one role's application form
type FormResponse struct {
	Branch    string                 `json:"branch"`
	Role      string                 `json:"role"`
	Questions []*models.FormQuestion `json:"questions"`
}

// GetForm returns the ordered question list for a role. An unknown
// branch or a role with no configured questions is a 404, unlike an
// empty queue.
func (s *QuestionService) GetForm(ctx context.Context, branch, role string) (*FormResponse, error) {
	branch = strings.ToLower(strings.TrimSpace(branch))
	if !domain.IsBranch(branch) {
		return nil, fmt.Errorf("%w: unknown branch %q", domain.ErrNotFound, branch)
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	questions, err := s.questionRepo.ListByRole(ctx, branch, role)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no open role %q in branch %q", domain.ErrNotFound, role, branch)
	}

	return &FormResponse{Branch: branch, Role: role, Questions: questions}, nil
}

// QuestionInput is one question of a form replacement
type QuestionInput struct {
	ID       string `json:"id" validate:"required"`
	Label    string `json:"label" validate:"required"`
	Type     string `json:"type" validate:"required"`
	Required bool   `json:"required"`
}

// ReplaceForm swaps a role's entire question set in one transaction.
// Executive only, enforced by the handler. Existing applications keep
// their submitted payloads untouched.
func (s *QuestionService) ReplaceForm(ctx context.Context, branch, role string, inputs []QuestionInput) (*FormResponse, error) {
	branch = strings.ToLower(strings.TrimSpace(branch))
	if !domain.IsBranch(branch) {
		return nil, fmt.Errorf("%w: unknown branch %q", domain.ErrValidation, branch)
	}
	if role = strings.TrimSpace(role); role == "" {
		return nil, fmt.Errorf("%w: role is required", domain.ErrValidation)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: a form needs at least one question", domain.ErrValidation)
	}

	seen := make(map[string]bool, len(inputs))
	questions := make([]models.FormQuestion, 0, len(inputs))
	for i, in := range inputs {
		id := strings.TrimSpace(in.ID)
		if id == "" || strings.TrimSpace(in.Label) == "" {
			return nil, fmt.Errorf("%w: question %d needs an id and a label", domain.ErrValidation, i)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate question id %q", domain.ErrValidation, id)
		}
		seen[id] = true
		if !validQuestionTypes[in.Type] {
			return nil, fmt.Errorf("%w: unknown question type %q", domain.ErrValidation, in.Type)
		}

		questions = append(questions, models.FormQuestion{
			Branch:       branch,
			Role:         role,
			QuestionID:   id,
			Label:        in.Label,
			Type:         in.Type,
			Required:     in.Required,
			DisplayOrder: i,
		})
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	if err := s.questionRepo.ReplaceForRole(ctx, branch, role, questions); err != nil {
		return nil, mapStoreErr(err)
	}

	log.Printf("✅ Form replaced: %s/%s (%d questions)", branch, role, len(questions))
	current, err := s.questionRepo.ListByRole(ctx, branch, role)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return &FormResponse{Branch: branch, Role: role, Questions: current}, nil
}
