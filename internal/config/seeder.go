package config

import (
	"log"

	"generate-recruit/internal/adapters/persistence/models"
	"generate-recruit/internal/core/domain"
	"generate-recruit/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedExecutive(); err != nil {
		log.Printf("⚠️ Executive seeder skipped: %v", err)
	}
	if err := s.seedFormQuestions(); err != nil {
		log.Printf("⚠️ Form question seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedExecutive seeds a default executive reviewer.
// This is for development/testing only.
// In production, load the roster through the roster endpoints.
func (s *Seeder) seedExecutive() error {
	var count int64
	s.db.Model(&models.StaffMember{}).Where("branch = ?", domain.BranchExecutive).Count(&count)
	if count > 0 {
		return nil // Executive already exists
	}

	hashed, err := password.Hash("executive123")
	if err != nil {
		return err
	}

	exec := &models.StaffMember{
		Email:      "exec@generatenu.dev",
		Name:       "Generate Executive",
		Role:       "Chief Operating Officer",
		Branch:     domain.BranchExecutive,
		Authorized: true,
		Password:   hashed,
		IsActive:   true,
	}

	if err := s.db.Create(exec).Error; err != nil {
		return err
	}

	log.Printf("✅ Executive reviewer created: %s", exec.Email)
	return nil
}

// defaultQuestions is the written portion every role starts with. Role
// specific questions are managed later through the form endpoints.
var defaultQuestions = []struct {
	ID       string
	Label    string
	Type     string
	Required bool
}{
	{"pronouns", "Pronouns", "text", true},
	{"major", "Major", "text", true},
	{"minor", "Minor", "text", false},
	{"year", "Graduation year", "text", true},
	{"graduationSemester", "Graduation semester", "text", true},
	{"previousGenerateExperience", "Describe any previous Generate experience", "textarea", false},
	{"commitments", "What other commitments will you have this semester?", "textarea", true},
	{"referralSource", "Where did you hear about this application?", "select", true},
	{"timeCommitment", "I understand the commitment and am certain I can make it", "boolean", true},
	{"resume", "Attach your resume (PDF only)", "file", true},
	{"whyGenerate", "What has Generate meant to you, or how have your experiences shaped you?", "textarea", true},
	{"changes", "What changes or improvements would you like to bring to the branch or position?", "textarea", true},
	{"vision", "What is your vision for your respective subbranch? How do you define success?", "textarea", true},
}

// defaultRoles seeds one open role per branch so a fresh install has a
// working application form for every branch.
var defaultRoles = map[string]string{
	"management": "Project Lead",
	"hardware":   "Hardware Engineer",
	"software":   "Software Engineer",
	"data":       "Data Analyst",
	"finance":    "Finance Analyst",
	"marketing":  "Marketing Coordinator",
	"community":  "Community Organizer",
}

// seedFormQuestions seeds the default written questions for each
// branch's default role when the table is empty.
func (s *Seeder) seedFormQuestions() error {
	var count int64
	s.db.Model(&models.FormQuestion{}).Count(&count)
	if count > 0 {
		return nil
	}

	var questions []models.FormQuestion
	for branch, role := range defaultRoles {
		for i, q := range defaultQuestions {
			questions = append(questions, models.FormQuestion{
				Branch:       branch,
				Role:         role,
				QuestionID:   q.ID,
				Label:        q.Label,
				Type:         q.Type,
				Required:     q.Required,
				DisplayOrder: i,
			})
		}
	}

	if err := s.db.CreateInBatches(questions, 100).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d form questions across %d roles", len(questions), len(defaultRoles))
	return nil
}
