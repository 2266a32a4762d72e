package services

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/blogem/intern-timetracker/export"
	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/repositories"
)

// EmployeeSummary aggregates one employee's records for the admin view
type EmployeeSummary struct {
	EmployeeID   string `json:"employeeId"`
	Name         string `json:"name"`
	CheckIns     int    `json:"checkIns"`
	CheckOuts    int    `json:"checkOuts"`
	Absences     int    `json:"absences"`
	LastActivity string `json:"lastActivity,omitempty"`
	lastRaw      int64
}

// Overview is everything the admin panel shows
type Overview struct {
	TimeLogs  []models.TimeLog    `json:"timeLogs"`
	Absences  []models.AbsenceLog `json:"absences"`
	Employees []EmployeeSummary   `json:"employees"`
}

// AdminService interface defines admin review operations
type AdminService interface {
	GetOverview(ctx context.Context) (*Overview, error)
	ExportWorkbook(ctx context.Context, w io.Writer) error
	GetRecentAudit(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
}

// adminService implements AdminService interface
type adminService struct {
	timeLogRepo repositories.TimeLogRepository
	absenceRepo repositories.AbsenceLogRepository
	auditRepo   repositories.AuditRepository
}

// NewAdminService creates a new admin service
func NewAdminService(timeLogRepo repositories.TimeLogRepository, absenceRepo repositories.AbsenceLogRepository, auditRepo repositories.AuditRepository) AdminService {
	return &adminService{
		timeLogRepo: timeLogRepo,
		absenceRepo: absenceRepo,
		auditRepo:   auditRepo,
	}
}

// GetOverview lists all records, most recent first, with a per-employee summary
func (s *adminService) GetOverview(ctx context.Context) (*Overview, error) {
	logs, absences, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	return &Overview{
		TimeLogs:  logs,
		Absences:  absences,
		Employees: summarize(logs, absences),
	}, nil
}

// ExportWorkbook writes every record to an XLSX workbook
func (s *adminService) ExportWorkbook(ctx context.Context, w io.Writer) error {
	logs, absences, err := s.load(ctx)
	if err != nil {
		return err
	}
	return export.WriteAdminWorkbook(w, logs, absences)
}

// GetRecentAudit returns the newest audit entries
func (s *adminService) GetRecentAudit(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	entries, err := s.auditRepo.GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log: %w", err)
	}
	return entries, nil
}

func (s *adminService) load(ctx context.Context) ([]models.TimeLog, []models.AbsenceLog, error) {
	logs, err := s.timeLogRepo.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get time logs: %w", err)
	}
	absences, err := s.absenceRepo.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get absences: %w", err)
	}

	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].RawTimestamp > logs[j].RawTimestamp
	})
	sort.SliceStable(absences, func(i, j int) bool {
		return absences[i].SubmittedAt > absences[j].SubmittedAt
	})
	return logs, absences, nil
}

// summarize expects logs sorted most recent first
func summarize(logs []models.TimeLog, absences []models.AbsenceLog) []EmployeeSummary {
	byID := make(map[string]*EmployeeSummary)
	get := func(user models.UserInfo) *EmployeeSummary {
		summary, ok := byID[user.EmployeeID]
		if !ok {
			summary = &EmployeeSummary{EmployeeID: user.EmployeeID, Name: user.FullName()}
			byID[user.EmployeeID] = summary
		}
		return summary
	}

	for _, log := range logs {
		summary := get(log.UserInfo)
		switch log.Action {
		case models.ActionIn:
			summary.CheckIns++
		case models.ActionOut:
			summary.CheckOuts++
		}
		if summary.LastActivity == "" || log.RawTimestamp > summary.lastRaw {
			summary.LastActivity = log.Timestamp
			summary.lastRaw = log.RawTimestamp
		}
	}
	for _, absence := range absences {
		get(absence.UserInfo).Absences++
	}

	summaries := make([]EmployeeSummary, 0, len(byID))
	for _, summary := range byID {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].EmployeeID < summaries[j].EmployeeID
	})
	return summaries
}
