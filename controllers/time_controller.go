package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/intern-timetracker/geolocation"
	"github.com/blogem/intern-timetracker/identity"
	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/services"
)

// reportedLocation is the fix the browser obtained. Both timestamps are epoch
// milliseconds from the browser's clock and are optional.
type reportedLocation struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Accuracy   float64 `json:"accuracy"`
	AcquiredAt int64   `json:"timestamp"`
	SentAt     int64   `json:"sentAt"`
}

// age is measured on the browser's clock only; the server clock may be skewed against it
func (l *reportedLocation) age() time.Duration {
	if l.AcquiredAt <= 0 || l.SentAt <= l.AcquiredAt {
		return 0
	}
	return time.Duration(l.SentAt-l.AcquiredAt) * time.Millisecond
}

// reportedLocationError is the browser's GeolocationPositionError
type reportedLocationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// clockRequest is the body of POST /time/{action}
type clockRequest struct {
	models.UserInfo
	Signals       identity.Signals       `json:"signals"`
	Location      *reportedLocation      `json:"location"`
	LocationError *reportedLocationError `json:"locationError"`
}

// locator replays what the client reported; no report at all means no geolocation support
func (req clockRequest) locator() geolocation.Locator {
	switch {
	case req.LocationError != nil:
		return geolocation.Reported{
			Failure: geolocation.ParseFailure(req.LocationError.Code),
			Message: req.LocationError.Message,
		}
	case req.Location != nil:
		return geolocation.Reported{Position: &geolocation.Position{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
			Accuracy:  req.Location.Accuracy,
			Age:       req.Location.age(),
		}}
	}
	return nil
}

// TimeLogController handles clock-in/out requests
type TimeLogController struct {
	services *services.Services
	responder
}

// NewTimeLogController creates a new time log controller
func NewTimeLogController(services *services.Services, r responder) *TimeLogController {
	return &TimeLogController{services: services, responder: r}
}

// Clock handles POST /time/{action}
func (c *TimeLogController) Clock(w http.ResponseWriter, r *http.Request) {
	action, err := models.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		c.badRequest(w, err.Error())
		return
	}

	var req clockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.badRequest(w, err.Error())
		return
	}

	user := resolveUser(r, req.UserInfo)
	result, err := c.services.TimeLogs.Record(r.Context(), services.ClockRequest{
		User:    user,
		Action:  action,
		Signals: req.Signals.Merge(identity.SignalsFromRequest(r)),
		Locator: req.locator(),
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	rememberUser(r, user)

	c.json(w, http.StatusCreated, map[string]interface{}{
		"log":    result.Log,
		"status": result.Status,
	})
}
