package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TypeAbsenceRequest  = "absence_request"
	TypeVacationRequest = "vacation_request"
	TypeDeviationReport = "deviation_report"
	TypeShiftAssignment = "shift_assignment"
	TypeChatMessage     = "chat_message"
	TypeSystem          = "system"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	StatusUnread   = "unread"
	StatusRead     = "read"
	StatusArchived = "archived"
)

// Notification status only moves forward: unread -> read -> archived.
// SourceEventID carries the outbox event id for consumer-created rows;
// its unique index is what makes redelivered events no-ops.
type Notification struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_notifications_company_user"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index:idx_notifications_company_user"`
	Title         string         `gorm:"size:255;not null"`
	Message       string         `gorm:"size:2048"`
	Type          string         `gorm:"type:varchar(30);not null;default:'system'"`
	Priority      string         `gorm:"type:varchar(10);not null;default:'medium'"`
	Status        string         `gorm:"type:varchar(10);not null;default:'unread'"`
	Metadata      datatypes.JSON `gorm:"type:jsonb"`
	SourceEventID *string        `gorm:"size:64;uniqueIndex:idx_notifications_source_event,where:source_event_id IS NOT NULL"`
	ReadAt        *time.Time
	ArchivedAt    *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

// statusRank orders the lifecycle; a transition is forward when the
// target rank is strictly greater.
func statusRank(s string) int {
	switch s {
	case StatusUnread:
		return 0
	case StatusRead:
		return 1
	case StatusArchived:
		return 2
	default:
		return -1
	}
}

func ValidType(t string) bool {
	switch t {
	case TypeAbsenceRequest, TypeVacationRequest, TypeDeviationReport,
		TypeShiftAssignment, TypeChatMessage, TypeSystem:
		return true
	}
	return false
}
