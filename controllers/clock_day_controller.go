package controllers

import (
	"net/http"

	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/services"
	"github.com/blogem/intern-timetracker/userctx"
)

// clockDayView is one row of the clock-day listing
type clockDayView struct {
	models.ClockDay
	Name      string `json:"name"`
	Permitted bool   `json:"permitted"` // false for days that can never be switched on
}

// ClockDayController handles the weekday policy configuration
type ClockDayController struct {
	services *services.Services
	responder
}

// NewClockDayController creates a new clock day controller
func NewClockDayController(services *services.Services, r responder) *ClockDayController {
	return &ClockDayController{services: services, responder: r}
}

// Index handles GET /admin/clock-days
func (c *ClockDayController) Index(w http.ResponseWriter, r *http.Request) {
	days, err := c.services.ClockDays.GetAllClockDays(r.Context())
	if err != nil {
		c.fail(w, r, err)
		return
	}
	listing := make([]clockDayView, 0, len(days))
	for i := range days {
		listing = append(listing, clockDayView{
			ClockDay:  days[i],
			Name:      days[i].GetDayName(),
			Permitted: models.IsPermittedClockDay(days[i].Weekday()),
		})
	}
	c.json(w, http.StatusOK, map[string]interface{}{"days": listing})
}

// Update handles POST /admin/clock-days
func (c *ClockDayController) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Days []models.ClockDayForm `json:"days"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		c.badRequest(w, err.Error())
		return
	}
	if len(req.Days) == 0 {
		c.badRequest(w, "No days given.")
		return
	}

	if err := c.services.ClockDays.UpdateClockDays(r.Context(), req.Days, userctx.Actor(r.Context())); err != nil {
		c.fail(w, r, err)
		return
	}

	c.Index(w, r)
}
