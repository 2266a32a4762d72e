package repositories

import (
	"database/sql"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	TimeLogs  TimeLogRepository
	Absences  AbsenceLogRepository
	ClockDays ClockDayRepository
	Audit     AuditRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		TimeLogs:  NewTimeLogRepository(db),
		Absences:  NewAbsenceLogRepository(db),
		ClockDays: NewClockDayRepository(db),
		Audit:     NewAuditRepository(db),
	}
}
