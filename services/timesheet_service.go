package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/blogem/intern-timetracker/export"
	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/repositories"
)

// Reconstruct returns the logs belonging to employeeID, most recent first.
// Logs with equal timestamps keep their store order. The result is never nil.
func Reconstruct(logs []models.TimeLog, employeeID string) []models.TimeLog {
	filtered := make([]models.TimeLog, 0)
	for _, log := range logs {
		if log.EmployeeID == employeeID {
			filtered = append(filtered, log)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].RawTimestamp > filtered[j].RawTimestamp
	})
	return filtered
}

// TimesheetExport is a rendered timesheet ready to be sent to the user
type TimesheetExport struct {
	Title    string
	Filename string
	Logs     int
}

// TimesheetService interface defines timesheet business logic
type TimesheetService interface {
	GetTimesheet(ctx context.Context, employeeID string) ([]models.TimeLog, error)
	// ExportPDF writes the timesheet of employeeID to w. requester supplies the
	// name used in the file name; it may be empty.
	ExportPDF(ctx context.Context, w io.Writer, employeeID string, requester models.UserInfo) (*TimesheetExport, error)
	// PDFFilename is the name ExportPDF would use right now
	PDFFilename(requester models.UserInfo) string
}

// timesheetService implements TimesheetService interface
type timesheetService struct {
	timeLogRepo repositories.TimeLogRepository
	opts        Options
}

// NewTimesheetService creates a new timesheet service
func NewTimesheetService(timeLogRepo repositories.TimeLogRepository, opts Options) TimesheetService {
	return &timesheetService{
		timeLogRepo: timeLogRepo,
		opts:        opts.withDefaults(),
	}
}

// GetTimesheet reads the whole store and reconstructs one employee's view
func (s *timesheetService) GetTimesheet(ctx context.Context, employeeID string) ([]models.TimeLog, error) {
	logs, err := s.timeLogRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get time logs: %w", err)
	}
	return Reconstruct(logs, strings.TrimSpace(employeeID)), nil
}

func (s *timesheetService) PDFFilename(requester models.UserInfo) string {
	return export.FilenamePrefix(requester, s.opts.localNow()) + ".pdf"
}

// ExportPDF renders the reconstructed timesheet
func (s *timesheetService) ExportPDF(ctx context.Context, w io.Writer, employeeID string, requester models.UserInfo) (*TimesheetExport, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, models.NewValidationError(models.TitleMissingFields, []string{"Employee ID is required"})
	}

	logs, err := s.GetTimesheet(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	result := &TimesheetExport{
		Title:    export.TimesheetTitle(employeeID),
		Filename: s.PDFFilename(requester),
		Logs:     len(logs),
	}
	if err := export.WriteTimesheetPDF(w, result.Title, logs); err != nil {
		return nil, err
	}
	return result, nil
}
