package models

import (
	"fmt"
	"time"
)

// ClockDay marks whether interns may clock in/out on a day of the week
type ClockDay struct {
	ID          int  `json:"id" db:"id"`
	DayOfWeek   int  `json:"day_of_week" db:"day_of_week"` // 0=Monday, 6=Sunday
	Active      bool `json:"active" db:"active"`
	AuditFields      // Embedded audit fields
}

// ClockDayForm represents form data for toggling a clock day
type ClockDayForm struct {
	DayOfWeek int  `json:"day_of_week" validate:"gte=0,lte=6"`
	Active    bool `json:"active"`
}

// DayNames maps day numbers to readable names
var DayNames = map[int]string{
	0: "Monday",
	1: "Tuesday",
	2: "Wednesday",
	3: "Thursday",
	4: "Friday",
	5: "Saturday",
	6: "Sunday",
}

// PermittedClockDays is the widest window clock days can be opened to.
// Friday, Saturday and Sunday are never clock days, whatever the table says.
var PermittedClockDays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday}

// IsPermittedClockDay reports whether weekday lies inside PermittedClockDays
func IsPermittedClockDay(weekday time.Weekday) bool {
	for _, day := range PermittedClockDays {
		if day == weekday {
			return true
		}
	}
	return false
}

// GetDayName returns the readable name for a day of week
func (d *ClockDay) GetDayName() string {
	if name, ok := DayNames[d.DayOfWeek]; ok {
		return name
	}
	return "Unknown"
}

// Weekday converts the stored day number back to a time.Weekday
func (d *ClockDay) Weekday() time.Weekday {
	return WeekdayFromNumber(d.DayOfWeek)
}

// WeekdayFromNumber is the inverse of WeekdayNumber
func WeekdayFromNumber(n int) time.Weekday {
	return time.Weekday((n + 1) % 7)
}

// Validate validates the clock day form data
func (f *ClockDayForm) Validate() []string {
	return validateStruct(f)
}

// CheckWindow rejects switching on a day outside PermittedClockDays
func (f *ClockDayForm) CheckWindow() error {
	if !f.Active || IsPermittedClockDay(WeekdayFromNumber(f.DayOfWeek)) {
		return nil
	}
	day := ClockDay{DayOfWeek: f.DayOfWeek}
	return NewValidationError(TitleNotAllowed, []string{fmt.Sprintf("%s cannot be a clock day", day.GetDayName())})
}
