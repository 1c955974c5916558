package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin            = "admin"
	RoleDepartmentLeader = "department_leader"
	RoleEmployee         = "employee"

	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_users_company_status"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`

	DisplayName string `gorm:"type:varchar(255);not null"`
	Email       string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone       string `gorm:"type:varchar(50)"`
	PhotoURL    string `gorm:"type:text"`
	Password    string `gorm:"type:varchar(255);not null"`

	Role   string `gorm:"type:varchar(30);not null;default:'employee'"`
	Status string `gorm:"type:varchar(20);not null;default:'pending';index:idx_users_company_status"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
