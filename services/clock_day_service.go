package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/repositories"
)

// ClockDayService interface defines the weekday policy for clock actions
type ClockDayService interface {
	GetAllClockDays(ctx context.Context) ([]models.ClockDay, error)
	GetAllowedWeekdays(ctx context.Context) ([]time.Weekday, error)
	IsClockDay(ctx context.Context, t time.Time) (bool, error)
	CheckClockDay(ctx context.Context, t time.Time) error
	UpdateClockDays(ctx context.Context, forms []models.ClockDayForm, modifiedBy string) error
}

// clockDayService implements ClockDayService interface
type clockDayService struct {
	clockDayRepo repositories.ClockDayRepository
	opts         Options
}

// NewClockDayService creates a new clock day service
func NewClockDayService(clockDayRepo repositories.ClockDayRepository, opts Options) ClockDayService {
	return &clockDayService{
		clockDayRepo: clockDayRepo,
		opts:         opts.withDefaults(),
	}
}

// GetAllClockDays retrieves the policy for every day of the week
func (s *clockDayService) GetAllClockDays(ctx context.Context) ([]models.ClockDay, error) {
	return s.clockDayRepo.GetAll(ctx)
}

// GetAllowedWeekdays returns the active days inside the permitted window, Monday first
func (s *clockDayService) GetAllowedWeekdays(ctx context.Context) ([]time.Weekday, error) {
	active, err := s.clockDayRepo.GetActiveDays(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active clock days: %w", err)
	}
	days := make([]time.Weekday, 0, len(active))
	for i := range active {
		if day := active[i].Weekday(); models.IsPermittedClockDay(day) {
			days = append(days, day)
		}
	}
	return days, nil
}

// IsClockDay reports whether t falls on an allowed weekday in the local zone
func (s *clockDayService) IsClockDay(ctx context.Context, t time.Time) (bool, error) {
	err := s.CheckClockDay(ctx, t)
	if err == nil {
		return true, nil
	}
	var violation *models.ScheduleViolation
	if errors.As(err, &violation) {
		return false, nil
	}
	return false, err
}

// CheckClockDay returns a *models.ScheduleViolation when t is not an allowed weekday.
// Days outside models.PermittedClockDays are rejected even if the table marks them active.
func (s *clockDayService) CheckClockDay(ctx context.Context, t time.Time) error {
	allowed, err := s.GetAllowedWeekdays(ctx)
	if err != nil {
		return err
	}

	weekday := t.In(s.opts.Location).Weekday()
	for _, day := range allowed {
		if day == weekday {
			return nil
		}
	}
	return &models.ScheduleViolation{Weekday: weekday, AllowedDays: allowed}
}

// UpdateClockDays applies several toggles at once; at least one day must remain active
func (s *clockDayService) UpdateClockDays(ctx context.Context, forms []models.ClockDayForm, modifiedBy string) error {
	// Validate all forms first
	for i := range forms {
		if problems := forms[i].Validate(); len(problems) > 0 {
			return models.NewValidationError(models.TitleMissingFields, problems)
		}
		if err := forms[i].CheckWindow(); err != nil {
			return err
		}
	}

	current, err := s.clockDayRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to get clock days: %w", err)
	}

	// Check that at least one day is active after the change
	active := make(map[int]bool, len(current))
	for _, day := range current {
		active[day.DayOfWeek] = day.Active
	}
	for _, form := range forms {
		active[form.DayOfWeek] = form.Active
	}
	hasActiveDay := false
	for _, on := range active {
		if on {
			hasActiveDay = true
			break
		}
	}
	if !hasActiveDay {
		return models.NewValidationError(models.TitleNotAllowed, []string{"At least one clock day must be active"})
	}

	var failed []string
	for _, form := range forms {
		if err := s.clockDayRepo.UpdateByDay(ctx, form.DayOfWeek, form.Active, modifiedBy); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", models.DayNames[form.DayOfWeek], err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to update clock days: %s", strings.Join(failed, "; "))
	}

	return nil
}
