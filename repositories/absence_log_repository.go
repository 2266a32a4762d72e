package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blogem/intern-timetracker/models"
)

// AbsenceLogRepository stores absence records; like the time log store it is append-only
type AbsenceLogRepository interface {
	Append(ctx context.Context, absence *models.AbsenceLog) error
	GetAll(ctx context.Context) ([]models.AbsenceLog, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]models.AbsenceLog, error)
}

type absenceLogRepository struct {
	db *sql.DB
}

// NewAbsenceLogRepository creates a new absence log repository
func NewAbsenceLogRepository(db *sql.DB) AbsenceLogRepository {
	return &absenceLogRepository{db: db}
}

const absenceColumns = `id, first_name, last_name, employee_id, device_name, date, reason, submitted, submitted_at`

// Append inserts a new absence
func (r *absenceLogRepository) Append(ctx context.Context, absence *models.AbsenceLog) error {
	query := `INSERT INTO absence_logs (` + absenceColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		absence.ID,
		absence.FirstName,
		absence.LastName,
		absence.EmployeeID,
		absence.DeviceName,
		absence.Date,
		absence.Reason,
		absence.Submitted,
		absence.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append absence: %w", err)
	}
	return nil
}

// GetAll retrieves every absence in insertion order
func (r *absenceLogRepository) GetAll(ctx context.Context) ([]models.AbsenceLog, error) {
	return r.query(ctx, `SELECT `+absenceColumns+` FROM absence_logs ORDER BY seq ASC`)
}

// GetByEmployee retrieves one employee's absences in insertion order
func (r *absenceLogRepository) GetByEmployee(ctx context.Context, employeeID string) ([]models.AbsenceLog, error) {
	return r.query(ctx, `SELECT `+absenceColumns+` FROM absence_logs WHERE employee_id = ? ORDER BY seq ASC`, employeeID)
}

func (r *absenceLogRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.AbsenceLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}
	defer rows.Close()

	absences := []models.AbsenceLog{}
	for rows.Next() {
		var a models.AbsenceLog
		if err := rows.Scan(
			&a.ID,
			&a.FirstName,
			&a.LastName,
			&a.EmployeeID,
			&a.DeviceName,
			&a.Date,
			&a.Reason,
			&a.Submitted,
			&a.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		absences = append(absences, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating absences: %w", err)
	}
	return absences, nil
}
