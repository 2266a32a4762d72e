package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blogem/intern-timetracker/models"
)

// TimeLogRepository is the log store. Records are only ever appended and read;
// reads return them in insertion order.
type TimeLogRepository interface {
	Append(ctx context.Context, log *models.TimeLog) error
	GetAll(ctx context.Context) ([]models.TimeLog, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]models.TimeLog, error)
}

// timeLogRepository implements TimeLogRepository interface
type timeLogRepository struct {
	db *sql.DB
}

// NewTimeLogRepository creates a new time log repository
func NewTimeLogRepository(db *sql.DB) TimeLogRepository {
	return &timeLogRepository{db: db}
}

const timeLogColumns = `
	id, first_name, last_name, employee_id, device_name, action, timestamp, raw_timestamp,
	latitude, longitude, accuracy, device_id, user_agent, duration`

// Append inserts a new time log
func (r *timeLogRepository) Append(ctx context.Context, log *models.TimeLog) error {
	query := `INSERT INTO time_logs (` + timeLogColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.FirstName,
		log.LastName,
		log.EmployeeID,
		log.DeviceName,
		string(log.Action),
		log.Timestamp,
		log.RawTimestamp,
		nullFloat(log.Latitude),
		nullFloat(log.Longitude),
		nullFloat(log.Accuracy),
		log.DeviceID,
		log.UserAgent,
		nullString(log.Duration),
	)
	if err != nil {
		return fmt.Errorf("failed to append time log: %w", err)
	}

	return nil
}

// GetAll retrieves every time log in insertion order
func (r *timeLogRepository) GetAll(ctx context.Context) ([]models.TimeLog, error) {
	query := `SELECT ` + timeLogColumns + ` FROM time_logs ORDER BY seq ASC`
	return r.query(ctx, query)
}

// GetByEmployee retrieves the time logs of one employee in insertion order
func (r *timeLogRepository) GetByEmployee(ctx context.Context, employeeID string) ([]models.TimeLog, error) {
	query := `SELECT ` + timeLogColumns + ` FROM time_logs WHERE employee_id = ? ORDER BY seq ASC`
	return r.query(ctx, query, employeeID)
}

func (r *timeLogRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.TimeLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time logs: %w", err)
	}
	defer rows.Close()

	logs := []models.TimeLog{}
	for rows.Next() {
		var (
			log                           models.TimeLog
			action                        string
			latitude, longitude, accuracy sql.NullFloat64
			duration                      sql.NullString
		)
		err := rows.Scan(
			&log.ID,
			&log.FirstName,
			&log.LastName,
			&log.EmployeeID,
			&log.DeviceName,
			&action,
			&log.Timestamp,
			&log.RawTimestamp,
			&latitude,
			&longitude,
			&accuracy,
			&log.DeviceID,
			&log.UserAgent,
			&duration,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time log: %w", err)
		}

		log.Action = models.Action(action)
		log.Latitude = floatPtr(latitude)
		log.Longitude = floatPtr(longitude)
		log.Accuracy = floatPtr(accuracy)
		if duration.Valid {
			log.Duration = duration.String
		}

		logs = append(logs, log)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time logs: %w", err)
	}

	return logs, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
