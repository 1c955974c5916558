package emailsettings

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultSMTPHost         = "smtp.office365.com"
	DefaultSMTPPort         = 587
	DefaultFromEmail        = "noreply@driftpro.no"
	DefaultRetryAttempts    = 3
	DefaultMaxEmailsPerHour = 100
)

const (
	LogStatusSent   = "sent"
	LogStatusFailed = "failed"
)

// Settings is a per-company singleton, enforced by the unique index on
// company_id.
type Settings struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_email_settings_company"`

	Enabled   bool   `gorm:"not null;default:false"`
	FromEmail string `gorm:"size:255;not null"`
	FromName  string `gorm:"size:255"`

	SMTPHost     string `gorm:"size:255;not null"`
	SMTPPort     int    `gorm:"not null"`
	SMTPUser     string `gorm:"size:255"`
	SMTPPassword string `gorm:"size:255"`

	RetryAttempts    int `gorm:"not null;default:3"`
	MaxEmailsPerHour int `gorm:"not null;default:100"`

	NotifyOnAbsence   bool `gorm:"not null;default:true"`
	NotifyOnVacation  bool `gorm:"not null;default:true"`
	NotifyOnDeviation bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Settings) TableName() string {
	return "email_settings"
}

// defaultSettings is what a company gets before anyone saved anything.
func defaultSettings(companyID uuid.UUID) *Settings {
	return &Settings{
		ID:                uuid.New(),
		CompanyID:         companyID,
		Enabled:           false,
		FromEmail:         DefaultFromEmail,
		SMTPHost:          DefaultSMTPHost,
		SMTPPort:          DefaultSMTPPort,
		RetryAttempts:     DefaultRetryAttempts,
		MaxEmailsPerHour:  DefaultMaxEmailsPerHour,
		NotifyOnAbsence:   true,
		NotifyOnVacation:  true,
		NotifyOnDeviation: true,
	}
}

// Log records one send attempt, successful or not.
type Log struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_email_logs_company_created,priority:1"`
	Recipient string    `gorm:"size:255;not null"`
	Subject   string    `gorm:"size:500"`
	Status    string    `gorm:"size:20;not null"`
	Error     string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index:idx_email_logs_company_created,priority:2"`
}

func (Log) TableName() string {
	return "email_logs"
}
