package controllers

import (
	"net/http"

	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/services"
)

// absenceRequest is the body of POST /absences
type absenceRequest struct {
	models.UserInfo
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// AbsenceController handles absence requests
type AbsenceController struct {
	services *services.Services
	responder
}

// NewAbsenceController creates a new absence controller
func NewAbsenceController(services *services.Services, r responder) *AbsenceController {
	return &AbsenceController{services: services, responder: r}
}

// Create handles POST /absences
func (c *AbsenceController) Create(w http.ResponseWriter, r *http.Request) {
	var req absenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.badRequest(w, err.Error())
		return
	}

	user := resolveUser(r, req.UserInfo)
	result, err := c.services.Absences.LogAbsence(r.Context(), user, models.AbsenceForm{Date: req.Date, Reason: req.Reason})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	rememberUser(r, user)

	c.json(w, http.StatusCreated, map[string]interface{}{
		"absence": result.Absence,
		"status":  result.Status,
	})
}

// List handles GET /absences?employeeId=
func (c *AbsenceController) List(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		employeeID = sessionUser(r).EmployeeID
	}

	absences, err := c.services.Absences.GetAbsences(r.Context(), employeeID)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.json(w, http.StatusOK, map[string]interface{}{
		"employeeId": employeeID,
		"absences":   absences,
	})
}
