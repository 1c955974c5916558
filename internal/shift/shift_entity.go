package shift

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

type Shift struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_shifts_company_status"`
	EmployeeID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title      string         `gorm:"size:255;not null"`
	StartTime  time.Time      `gorm:"not null"`
	EndTime    time.Time      `gorm:"not null"`
	Status     string         `gorm:"type:varchar(20);not null;default:'scheduled';index:idx_shifts_company_status"`
	Location   string         `gorm:"size:255"`
	Notes      string         `gorm:"size:1024"`
	CreatedBy  uuid.UUID      `gorm:"type:uuid"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}
