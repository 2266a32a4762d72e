package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/repositories"
)

// AbsenceResult describes an appended absence
type AbsenceResult struct {
	Absence *models.AbsenceLog
	Status  models.StatusMessage
}

// AbsenceService interface defines absence business logic
type AbsenceService interface {
	LogAbsence(ctx context.Context, user models.UserInfo, form models.AbsenceForm) (*AbsenceResult, error)
	GetAbsences(ctx context.Context, employeeID string) ([]models.AbsenceLog, error)
}

// absenceService implements AbsenceService interface
type absenceService struct {
	absenceRepo repositories.AbsenceLogRepository
	opts        Options
}

// NewAbsenceService creates a new absence service
func NewAbsenceService(absenceRepo repositories.AbsenceLogRepository, opts Options) AbsenceService {
	return &absenceService{
		absenceRepo: absenceRepo,
		opts:        opts.withDefaults(),
	}
}

// LogAbsence checks identity first, then the form, and appends the absence
func (s *absenceService) LogAbsence(ctx context.Context, user models.UserInfo, form models.AbsenceForm) (*AbsenceResult, error) {
	user = user.Normalized()
	if err := user.Check(); err != nil {
		return nil, err
	}

	form = form.Normalized()
	if err := models.NewValidationError(models.TitleMissingFields, form.ValidateWithLimit(s.opts.AbsenceReasonMax)); err != nil {
		return nil, err
	}

	now := s.opts.localNow()
	absence := &models.AbsenceLog{
		ID:          uuid.NewString(),
		UserInfo:    user,
		Date:        form.Date,
		Reason:      form.Reason,
		Submitted:   models.FormatLocal(now),
		SubmittedAt: now.UnixMilli(),
	}

	if err := s.absenceRepo.Append(ctx, absence); err != nil {
		return nil, fmt.Errorf("failed to append absence: %w", err)
	}

	s.opts.Metrics.AbsenceLogged()
	slog.Info("absence recorded", "employee_id", absence.EmployeeID, "date", absence.Date, "id", absence.ID)

	if s.opts.Publisher != nil {
		published := *absence
		publishAsync(ctx, func(ctx context.Context) error {
			return s.opts.Publisher.PublishAbsence(ctx, &published)
		})
	}

	details := fmt.Sprintf("Your absence for %s has been recorded.", absence.Date)
	return &AbsenceResult{
		Absence: absence,
		Status:  models.NewStatus(models.StatusSuccess, models.TitleAbsenceLogged, details, s.opts.StatusDismissAfter),
	}, nil
}

// GetAbsences lists an employee's absences in submission order
func (s *absenceService) GetAbsences(ctx context.Context, employeeID string) ([]models.AbsenceLog, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, models.NewValidationError(models.TitleMissingFields, []string{"Employee ID is required"})
	}
	absences, err := s.absenceRepo.GetByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get absences: %w", err)
	}
	return absences, nil
}
