package timeclock

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry is one clock-in/clock-out pair. The partial unique index keeps
// at most one open entry per employee; the service checks first, the
// index catches races.
type Entry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_time_entries_company;uniqueIndex:idx_time_entries_open,priority:1,where:clock_out IS NULL"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_time_entries_open,priority:2,where:clock_out IS NULL"`
	ClockIn    time.Time `gorm:"not null"`
	ClockOut   *time.Time
	TotalHours float64 `gorm:"not null;default:0"`
	Notes      string  `gorm:"size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Entry) TableName() string {
	return "time_entries"
}

func (e *Entry) Open() bool {
	return e.ClockOut == nil
}
