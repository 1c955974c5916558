package vacation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

type Vacation struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_vacations_company_status"`
	EmployeeID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	StartDate       time.Time  `gorm:"type:date;not null"`
	EndDate         time.Time  `gorm:"type:date;not null"`
	DaysRequested   int        `gorm:"not null"`
	Year            int        `gorm:"not null"`
	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_vacations_company_status"`
	Reason          string     `gorm:"size:1024"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason *string        `gorm:"size:1024"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// Balance is one employee's vacation allowance for one calendar year.
// remaining = TotalDays + CarriedOverDays - UsedDays.
type Balance struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vacation_balance,priority:1"`
	EmployeeID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vacation_balance,priority:2"`
	Year            int       `gorm:"not null;uniqueIndex:idx_vacation_balance,priority:3"`
	TotalDays       int       `gorm:"not null;default:25"`
	UsedDays        int       `gorm:"not null;default:0"`
	CarriedOverDays int       `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Balance) TableName() string { return "vacation_balances" }

func (b Balance) Remaining() int {
	return b.TotalDays + b.CarriedOverDays - b.UsedDays
}
