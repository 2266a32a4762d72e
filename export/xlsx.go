package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/blogem/intern-timetracker/models"
)

const (
	timeLogSheet = "Time Logs"
	absenceSheet = "Absences"
)

var timeLogHeaders = []any{
	"First Name", "Last Name", "Employee ID", "Device", "Action", "Timestamp",
	"Duration", "Latitude", "Longitude", "Accuracy (m)", "Device ID", "User Agent",
}

var absenceHeaders = []any{"First Name", "Last Name", "Employee ID", "Date", "Reason", "Submitted"}

// WriteAdminWorkbook writes one sheet of time logs and one of absences
func WriteAdminWorkbook(w io.Writer, logs []models.TimeLog, absences []models.AbsenceLog) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", timeLogSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(absenceSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeRow(f, timeLogSheet, 1, timeLogHeaders); err != nil {
		return err
	}
	for i, log := range logs {
		row := []any{
			log.FirstName, log.LastName, log.EmployeeID, log.DeviceName, string(log.Action), log.Timestamp,
			log.Duration, optional(log.Latitude), optional(log.Longitude), optional(log.Accuracy),
			log.DeviceID, log.UserAgent,
		}
		if err := writeRow(f, timeLogSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, absenceSheet, 1, absenceHeaders); err != nil {
		return err
	}
	for i, a := range absences {
		row := []any{a.FirstName, a.LastName, a.EmployeeID, a.Date, a.Reason, a.Submitted}
		if err := writeRow(f, absenceSheet, i+2, row); err != nil {
			return err
		}
	}

	for _, sheet := range []string{timeLogSheet, absenceSheet} {
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return fmt.Errorf("failed to freeze header row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// optional leaves the cell empty for an unset coordinate
func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
