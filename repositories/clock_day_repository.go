package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blogem/intern-timetracker/models"
)

// ClockDayRepository interface defines clock day database operations
type ClockDayRepository interface {
	GetAll(ctx context.Context) ([]models.ClockDay, error)
	GetByDay(ctx context.Context, dayOfWeek int) (*models.ClockDay, error)
	GetActiveDays(ctx context.Context) ([]models.ClockDay, error)
	UpdateByDay(ctx context.Context, dayOfWeek int, active bool, modifiedBy string) error
}

// clockDayRepository implements ClockDayRepository interface
type clockDayRepository struct {
	db *sql.DB
}

// NewClockDayRepository creates a new clock day repository
func NewClockDayRepository(db *sql.DB) ClockDayRepository {
	return &clockDayRepository{db: db}
}

// GetAll retrieves all clock day configurations
func (r *clockDayRepository) GetAll(ctx context.Context) ([]models.ClockDay, error) {
	query := `
		SELECT id, day_of_week, active, modified_by, modified_at
		FROM clock_days
		ORDER BY day_of_week ASC
	`
	return r.query(ctx, query)
}

// GetByDay retrieves the clock day configuration for a specific day
func (r *clockDayRepository) GetByDay(ctx context.Context, dayOfWeek int) (*models.ClockDay, error) {
	query := `
		SELECT id, day_of_week, active, modified_by, modified_at
		FROM clock_days
		WHERE day_of_week = ?
	`

	days, err := r.query(ctx, query, dayOfWeek)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("clock day %d not found", dayOfWeek)
	}

	return &days[0], nil
}

// GetActiveDays retrieves only the days on which clocking is allowed
func (r *clockDayRepository) GetActiveDays(ctx context.Context) ([]models.ClockDay, error) {
	query := `
		SELECT id, day_of_week, active, modified_by, modified_at
		FROM clock_days
		WHERE active = 1
		ORDER BY day_of_week ASC
	`
	return r.query(ctx, query)
}

// UpdateByDay toggles a specific day
func (r *clockDayRepository) UpdateByDay(ctx context.Context, dayOfWeek int, active bool, modifiedBy string) error {
	query := `
		UPDATE clock_days
		SET active = ?, modified_by = ?, modified_at = ?
		WHERE day_of_week = ?
	`

	result, err := r.db.ExecContext(ctx, query, active, modifiedBy, time.Now(), dayOfWeek)
	if err != nil {
		return fmt.Errorf("failed to update clock day %d: %w", dayOfWeek, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("clock day %d not found", dayOfWeek)
	}

	return nil
}

func (r *clockDayRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.ClockDay, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clock days: %w", err)
	}
	defer rows.Close()

	var days []models.ClockDay
	for rows.Next() {
		var (
			day        models.ClockDay
			modifiedBy sql.NullString
			modifiedAt sql.NullTime
		)
		err := rows.Scan(
			&day.ID,
			&day.DayOfWeek,
			&day.Active,
			&modifiedBy,
			&modifiedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clock day: %w", err)
		}
		day.ModifiedBy = modifiedBy.String
		if modifiedAt.Valid {
			t := modifiedAt.Time
			day.ModifiedAt = &t
		}
		days = append(days, day)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clock days: %w", err)
	}

	return days, nil
}
