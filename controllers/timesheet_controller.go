package controllers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/intern-timetracker/services"
)

// TimesheetController serves an intern's reconstructed timesheet
type TimesheetController struct {
	services *services.Services
	responder
}

// NewTimesheetController creates a new timesheet controller
func NewTimesheetController(services *services.Services, r responder) *TimesheetController {
	return &TimesheetController{services: services, responder: r}
}

// Show handles GET /timesheet/{employeeID}
func (c *TimesheetController) Show(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	logs, err := c.services.Timesheets.GetTimesheet(r.Context(), employeeID)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	c.json(w, http.StatusOK, map[string]interface{}{
		"employeeId": employeeID,
		"logs":       logs,
	})
}

// PDF handles GET /timesheet/{employeeID}/pdf
func (c *TimesheetController) PDF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	result, err := c.services.Timesheets.ExportPDF(r.Context(), &buf, chi.URLParam(r, "employeeID"), sessionUser(r))
	if err != nil {
		c.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
