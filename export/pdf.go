// Package export renders timesheets as PDF and the admin overview as an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/blogem/intern-timetracker/models"
)

// TimesheetTitle is the heading of an exported timesheet
func TimesheetTitle(employeeID string) string {
	return "Timesheet for " + employeeID
}

var timesheetColumns = []struct {
	header string
	width  float64
}{
	{"Action", 25},
	{"Timestamp", 60},
	{"Device", 50},
	{"Duration", 55},
}

// WriteTimesheetPDF writes logs (already ordered) as a single table under title
func WriteTimesheetPDF(w io.Writer, title string, logs []models.TimeLog) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for _, col := range timesheetColumns {
		pdf.CellFormat(col.width, 8, col.header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(logs) == 0 {
		pdf.CellFormat(totalWidth(), 8, "No records found for this ID.", "1", 1, "C", false, 0, "")
	}
	for _, log := range logs {
		duration := ""
		if log.Action == models.ActionOut {
			duration = log.Duration
		}
		cells := []string{string(log.Action), log.Timestamp, log.DeviceName, duration}
		for i, col := range timesheetColumns {
			pdf.CellFormat(col.width, 7, tr(cells[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render timesheet pdf: %w", err)
	}
	return nil
}

func totalWidth() float64 {
	var total float64
	for _, col := range timesheetColumns {
		total += col.width
	}
	return total
}
