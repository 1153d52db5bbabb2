package models

import "time"

type ReminderStatus string

const (
	ReminderPending    ReminderStatus = "Pending"
	ReminderInProgress ReminderStatus = "In Progress"
	ReminderCompleted  ReminderStatus = "Completed"
	ReminderNotStarted ReminderStatus = "Not Started"
)

func (s ReminderStatus) Valid() bool {
	switch s {
	case ReminderPending, ReminderInProgress, ReminderCompleted, ReminderNotStarted:
		return true
	}
	return false
}

type Reminder struct {
	ReminderID     int64          `json:"id"`
	LeadID         int64          `json:"lead_id"`
	LeadName       string         `json:"lead_name"`
	Type           string         `json:"type"`
	DueDate        *time.Time     `json:"due_date"`
	Status         ReminderStatus `json:"status"`
	Notes          string         `json:"notes"`
	RecurrenceRule string         `json:"recurrence_rule"` // RFC 5545 RRULE, optional
	CreatedAt      time.Time      `json:"created_at"`
}

func (r *Reminder) IsCompleted() bool {
	return r.Status == ReminderCompleted
}

// IsRecurring returns true if this reminder has a recurrence rule
func (r *Reminder) IsRecurring() bool {
	return r.RecurrenceRule != ""
}
