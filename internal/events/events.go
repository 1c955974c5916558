// Package events defines the wire shapes published through the outbox.
// Payloads are versioned by topic name; adding a field is compatible,
// renaming or removing one requires a new topic.
package events

import "time"

const (
	TopicAbsenceLifecycle  = "hr.absence.lifecycle.v1"
	TopicVacationLifecycle = "hr.vacation.lifecycle.v1"
)

const (
	EventTypeAbsenceRequested  = "absence.requested"
	EventTypeVacationRequested = "vacation.requested"
)

type AbsenceRequestedEvent struct {
	AbsenceID  string    `json:"absence_id"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	Type       string    `json:"type"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	OccurredAt time.Time `json:"occurred_at"`
}

type VacationRequestedEvent struct {
	VacationID    string    `json:"vacation_id"`
	CompanyID     string    `json:"company_id"`
	EmployeeID    string    `json:"employee_id"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	DaysRequested int       `json:"days_requested"`
	OccurredAt    time.Time `json:"occurred_at"`
}
