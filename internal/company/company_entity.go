package company

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the tenant record itself; its ID is the companyId every
// other entity is scoped by.
type Company struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"size:255;not null"`
	OrgNumber     string    `gorm:"size:9;uniqueIndex"`
	Email         string    `gorm:"size:255"`
	Phone         string    `gorm:"size:32"`
	Address       string    `gorm:"size:512"`
	PostalCode    string    `gorm:"size:16"`
	City          string    `gorm:"size:128"`
	Website       string    `gorm:"size:255"`
	OrgForm       string    `gorm:"size:16"`
	IndustryCode  string    `gorm:"size:16"`
	IndustryText  string    `gorm:"size:255"`
	EmployeeCount int       `gorm:"default:0"`
	Active        bool      `gorm:"default:true"`
	EnrichedAt    *time.Time
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
