package survey

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusComplete = "completed"
	StatusArchived = "archived"
)

const (
	QuestionTypeText           = "text"
	QuestionTypeSingleChoice   = "single_choice"
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeRating         = "rating"
)

func ValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeText, QuestionTypeSingleChoice, QuestionTypeMultipleChoice, QuestionTypeRating:
		return true
	}
	return false
}

// Question is one element of the survey's ordered questions document.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
}

type Survey struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_surveys_company_status,priority:1"`
	Title          string         `gorm:"size:255;not null"`
	Description    string         `gorm:"type:text"`
	Questions      datatypes.JSON `gorm:"type:jsonb;not null"`
	Status         string         `gorm:"size:20;not null;default:'draft';index:idx_surveys_company_status,priority:2"`
	TargetAudience string         `gorm:"size:100"`
	ResponseCount  int            `gorm:"not null;default:0"`
	CreatedBy      uuid.UUID      `gorm:"type:uuid;not null"`
	ActivatedAt    *time.Time
	ClosedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// Submission records one respondent's answers. The unique index keeps a
// respondent to a single submission per survey.
type Submission struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_survey_submissions_unique,priority:1"`
	SurveyID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_survey_submissions_unique,priority:2"`
	RespondentID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_survey_submissions_unique,priority:3"`
	Answers      datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time
}

func (Submission) TableName() string {
	return "survey_submissions"
}
