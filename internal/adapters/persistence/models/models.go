package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Applications
// ============================================================

// Application represents one submission per (applicant, branch, role).
// applicant_email, branch, role and form_data are immutable after creation;
// status and claimed_by are mutated only through the repository's conditional
// updates.
type Application struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	ApplicantEmail string     `gorm:"size:100;not null;index" json:"applicant_email"`
	ApplicantName  string     `gorm:"size:100" json:"applicant_name"`
	Branch         string     `gorm:"size:30;not null;index:idx_branch_role" json:"branch"`
	Role           string     `gorm:"size:60;not null;index:idx_branch_role" json:"role"`
	FormData       JSONMap    `gorm:"type:json" json:"form_data"`
	Status         string     `gorm:"size:20;not null;default:'submitted';index" json:"status"`
	ClaimedBy      *string    `gorm:"size:100;index" json:"claimed_by"`
	ClaimedAt      *time.Time `json:"claimed_at"`
	SubmittedAt    time.Time  `gorm:"not null;index" json:"submitted_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Notes        []ApplicationNote `gorm:"foreignKey:ApplicationID" json:"notes,omitempty"`
	StatusEvents []StatusEvent     `gorm:"foreignKey:ApplicationID" json:"status_events,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// Timestamps returns the status-name → entry-time mapping derived from the
// append-only status event log.
func (a *Application) Timestamps() map[string]time.Time {
	out := make(map[string]time.Time, len(a.StatusEvents))
	for _, ev := range a.StatusEvents {
		out[ev.Status] = ev.RecordedAt
	}
	return out
}

// ApplicationResponse DTO
type ApplicationResponse struct {
	ID             string               `json:"id"`
	ApplicantEmail string               `json:"applicant_email"`
	ApplicantName  string               `json:"applicant_name,omitempty"`
	Branch         string               `json:"branch"`
	Role           string               `json:"role"`
	FormData       JSONMap              `json:"form_data,omitempty"`
	Status         string               `json:"status"`
	ClaimedBy      *string              `json:"claimed_by"`
	SubmittedAt    time.Time            `json:"submitted_at"`
	Timestamps     map[string]time.Time `json:"timestamps,omitempty"`
	Notes          []ApplicationNote    `json:"notes,omitempty"`
}

func (a *Application) ToResponse() *ApplicationResponse {
	resp := &ApplicationResponse{
		ID:             a.ID,
		ApplicantEmail: a.ApplicantEmail,
		ApplicantName:  a.ApplicantName,
		Branch:         a.Branch,
		Role:           a.Role,
		FormData:       a.FormData,
		Status:         a.Status,
		ClaimedBy:      a.ClaimedBy,
		SubmittedAt:    a.SubmittedAt,
		Notes:          a.Notes,
	}
	if len(a.StatusEvents) > 0 {
		resp.Timestamps = a.Timestamps()
	}
	return resp
}

// ApplicationNote is one entry of the append-only shared notes log.
// Rows are only ever inserted; never updated or deleted.
type ApplicationNote struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID string    `gorm:"size:36;not null;index" json:"application_id"`
	AuthorEmail   string    `gorm:"size:100;not null" json:"author_email"`
	AuthorName    string    `gorm:"size:100" json:"author_name"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ApplicationNote) TableName() string {
	return "application_notes"
}

// StatusEvent records entry into a status. Exactly one row per status an
// application has passed through (unique on application_id + status); the
// submitted row is written at creation and never overwritten.
type StatusEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID string    `gorm:"size:36;not null;uniqueIndex:idx_app_status" json:"application_id"`
	Status        string    `gorm:"size:20;not null;uniqueIndex:idx_app_status" json:"status"`
	Actor         string    `gorm:"size:100" json:"actor,omitempty"`
	RecordedAt    time.Time `gorm:"not null" json:"recorded_at"`
}

func (StatusEvent) TableName() string {
	return "application_status_events"
}

// ============================================================
// Roster & Applicants
// ============================================================

// StaffMember is one roster entry. The roster is the source of truth for
// reviewer authorization and is consulted per request.
type StaffMember struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Email      string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Name       string         `gorm:"size:100;not null" json:"name"`
	Role       string         `gorm:"size:60;not null" json:"role"`
	Branch     string         `gorm:"size:30;not null;index" json:"branch"`
	Authorized bool           `gorm:"default:false" json:"authorized"`
	Password   string         `gorm:"size:255;not null" json:"-"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (StaffMember) TableName() string {
	return "staff_members"
}

// Applicant represents a portal account for someone applying to the org
type Applicant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Year      string         `gorm:"size:20" json:"year"`
	Major     string         `gorm:"size:100" json:"major"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Applicant) TableName() string {
	return "applicants"
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Subject   string     `gorm:"size:100;not null;index" json:"subject"` // account email
	Kind      string     `gorm:"size:20;not null" json:"kind"`           // applicant | staff
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Form configuration (read-only collaborator for the core)
// ============================================================

// FormQuestion is one question of a role's application form
type FormQuestion struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	Branch       string    `gorm:"size:30;not null;uniqueIndex:idx_role_question" json:"branch"`
	Role         string    `gorm:"size:60;not null;uniqueIndex:idx_role_question" json:"role"`
	QuestionID   string    `gorm:"size:60;not null;uniqueIndex:idx_role_question" json:"id"`
	Label        string    `gorm:"type:text;not null" json:"label"`
	Type         string    `gorm:"size:20;not null;default:'text'" json:"type"` // text|textarea|boolean|select|file
	Required     bool      `gorm:"default:false" json:"required"`
	DisplayOrder int       `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (FormQuestion) TableName() string {
	return "form_questions"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Application{},
		&ApplicationNote{},
		&StatusEvent{},
		&StaffMember{},
		&Applicant{},
		&RefreshToken{},
		&FormQuestion{},
	)
}
