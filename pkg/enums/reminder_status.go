package enums

import "fmt"

// ReminderStatus tracks the lifecycle of a vaccine reminder.
type ReminderStatus string

const (
	ReminderStatusPending   ReminderStatus = "pending"
	ReminderStatusSent      ReminderStatus = "sent"
	ReminderStatusCompleted ReminderStatus = "completed"
)

var validReminderStatuses = []ReminderStatus{
	ReminderStatusPending,
	ReminderStatusSent,
	ReminderStatusCompleted,
}

// String implements fmt.Stringer.
func (r ReminderStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReminderStatus.
func (r ReminderStatus) IsValid() bool {
	for _, candidate := range validReminderStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReminderStatus converts raw input into a ReminderStatus.
func ParseReminderStatus(value string) (ReminderStatus, error) {
	for _, candidate := range validReminderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reminder status %q", value)
}
