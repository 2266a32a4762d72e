package controllers

import (
	"net/http"
	"time"

	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/services"
)

var timeNow = func() time.Time {
	return time.Now()
}

// DashboardController handles dashboard-related requests
type DashboardController struct {
	services   *services.Services
	loginModes map[string]bool
	responder
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(services *services.Services, opts Options, r responder) *DashboardController {
	return &DashboardController{
		services: services,
		loginModes: map[string]bool{
			"oidc":  opts.OIDC != nil,
			"local": opts.LocalAdmin != nil,
		},
		responder: r,
	}
}

// Index handles GET /
func (c *DashboardController) Index(w http.ResponseWriter, r *http.Request) {
	now := timeNow()
	allowed, err := c.services.ClockDays.GetAllowedWeekdays(r.Context())
	if err != nil {
		c.fail(w, r, err)
		return
	}
	isClockDay, err := c.services.ClockDays.IsClockDay(r.Context(), now)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	allowedNames := make([]string, len(allowed))
	for i, day := range allowed {
		allowedNames[i] = day.String()
	}

	c.json(w, http.StatusOK, map[string]interface{}{
		"service":     "intern-timetracker",
		"today":       models.FormatDate(now),
		"clockDay":    isClockDay,
		"allowedDays": allowedNames,
		"user":        sessionUser(r),
		"adminLogin":  c.loginModes,
	})
}
