package absence

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeSickLeave     = "sick_leave"
	TypePersonalLeave = "personal_leave"
	TypeOther         = "other"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Absence struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_absences_company_status"`
	EmployeeID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type            string     `gorm:"type:varchar(20);not null"`
	StartDate       time.Time  `gorm:"type:date;not null"`
	EndDate         time.Time  `gorm:"type:date;not null"`
	Reason          string     `gorm:"size:1024"`
	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_absences_company_status"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason *string        `gorm:"size:1024"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func ValidType(t string) bool {
	switch t {
	case TypeSickLeave, TypePersonalLeave, TypeOther:
		return true
	default:
		return false
	}
}
