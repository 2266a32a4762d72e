package models

import (
	"time"
)

// AuditFields contains common audit tracking fields
type AuditFields struct {
	CreatedBy  string     `json:"created_by,omitempty"`
	ModifiedBy string     `json:"modified_by,omitempty"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}

// StatusType classifies a status message shown to the user
type StatusType string

const (
	StatusSuccess StatusType = "success"
	StatusError   StatusType = "error"
	StatusInfo    StatusType = "info"
)

// DefaultStatusDismissAfter is how long a status message stays visible
const DefaultStatusDismissAfter = 5 * time.Second

// Status titles shared by services and controllers
const (
	TitleMissingInformation = "Missing Information"
	TitleInvalidInformation = "Invalid Information"
	TitleMissingFields      = "Missing Fields"
	TitleNotAllowed         = "Not Allowed"
	TitleLocationError      = "Location Error"
	TitleAbsenceLogged      = "Absence Logged"
	TitleLoginFailed        = "Login Failed"
)

// StatusMessage represents a transient message for user feedback
type StatusMessage struct {
	Type           StatusType `json:"type"`
	Title          string     `json:"title"`
	Details        string     `json:"details"`
	DismissAfterMs int64      `json:"dismissAfterMs"`
}

// NewStatus builds a status message that the client hides after dismissAfter
func NewStatus(statusType StatusType, title, details string, dismissAfter time.Duration) StatusMessage {
	if dismissAfter <= 0 {
		dismissAfter = DefaultStatusDismissAfter
	}
	return StatusMessage{
		Type:           statusType,
		Title:          title,
		Details:        details,
		DismissAfterMs: dismissAfter.Milliseconds(),
	}
}

// SameLocalDate reports whether a and b fall on the same calendar date in a's location
func SameLocalDate(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FromEpochMillis converts an epoch-millisecond timestamp into loc
func FromEpochMillis(ms int64, loc *time.Location) time.Time {
	return time.UnixMilli(ms).In(loc)
}

// FormatDate formats a time as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatLocal formats a time the way the browser's toLocaleString does for en-US
func FormatLocal(t time.Time) string {
	return t.Format(LocalTimestampLayout)
}

// FormatLocalTime formats only the clock part, e.g. "3:04:05 PM"
func FormatLocalTime(t time.Time) string {
	return t.Format("3:04:05 PM")
}

const (
	// DateLayout is the calendar date format used for absences and exports
	DateLayout = "2006-01-02"
	// LocalTimestampLayout mirrors "10/15/2026, 9:30:00 AM"
	LocalTimestampLayout = "1/2/2006, 3:04:05 PM"
)

// WeekdayNumber converts a time.Weekday into 0=Monday..6=Sunday
func WeekdayNumber(weekday time.Weekday) int {
	if weekday == time.Sunday {
		return 6
	}
	return int(weekday) - 1
}
