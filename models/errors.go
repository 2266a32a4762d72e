package models

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError reports required input that is missing or malformed.
// Title is the user-facing heading, Messages the individual problems.
type ValidationError struct {
	Title    string
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed: " + strings.ToLower(e.Title)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Messages, ", "))
}

// Details joins the messages into one sentence for a status message
func (e *ValidationError) Details() string {
	return strings.Join(e.Messages, ". ") + "."
}

// NewValidationError returns nil when there is nothing to report
func NewValidationError(title string, messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Title: title, Messages: messages}
}

// ScheduleViolation is returned when a clock action happens outside the allowed weekdays
type ScheduleViolation struct {
	Weekday     time.Weekday
	AllowedDays []time.Weekday
}

func (e *ScheduleViolation) Error() string {
	return fmt.Sprintf("clock actions are not allowed on %s", e.Weekday)
}

// Details describes the allowed window, e.g. "Monday-Thursday"
func (e *ScheduleViolation) Details() string {
	return fmt.Sprintf("Check-in and check-out are only allowed %s.", describeDays(e.AllowedDays))
}

// describeDays renders consecutive days as a span and anything else as a list
func describeDays(days []time.Weekday) string {
	if len(days) == 0 {
		return "on no days"
	}
	names := make([]string, len(days))
	consecutive := true
	for i, d := range days {
		names[i] = d.String()
		if i > 0 && WeekdayNumber(d) != WeekdayNumber(days[i-1])+1 {
			consecutive = false
		}
	}
	if consecutive && len(days) > 2 {
		return names[0] + "-" + names[len(names)-1]
	}
	return strings.Join(names, ", ")
}
