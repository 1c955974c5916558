package deviation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategorySafety    = "safety"
	CategoryQuality   = "quality"
	CategoryEquipment = "equipment"
	CategoryProcess   = "process"
	CategoryOther     = "other"

	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"

	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusRejected   = "rejected"
)

// Deviation is an incident report. UniqueID is the human-facing number
// (AVVIK-000042), sequential per company.
type Deviation struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_deviations_company_status;uniqueIndex:idx_deviations_company_unique,priority:1"`
	UniqueID    string     `gorm:"size:20;not null;uniqueIndex:idx_deviations_company_unique,priority:2"`
	Title       string     `gorm:"size:255;not null"`
	Description string     `gorm:"size:4096"`
	Category    string     `gorm:"type:varchar(20);not null;default:'other'"`
	Priority    string     `gorm:"type:varchar(10);not null;default:'medium'"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_deviations_company_status"`
	ReportedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	AssignedTo  *uuid.UUID `gorm:"type:uuid"`
	Resolution  string     `gorm:"size:4096"`
	ResolvedAt  *time.Time
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func ValidCategory(v string) bool {
	switch v {
	case CategorySafety, CategoryQuality, CategoryEquipment, CategoryProcess, CategoryOther:
		return true
	}
	return false
}

func ValidPriority(v string) bool {
	switch v {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}
