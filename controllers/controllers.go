package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gitea.com/go-chi/session"

	"github.com/blogem/intern-timetracker/authenticator"
	"github.com/blogem/intern-timetracker/geolocation"
	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/services"
	"github.com/blogem/intern-timetracker/userctx"
)

const maxBodyBytes = 1 << 20

// Options configures the HTTP layer
type Options struct {
	StatusDismissAfter time.Duration
	OIDC               authenticator.Provider // nil disables OIDC admin login
	LocalAdmin         *authenticator.LocalAdmin
}

// Controllers holds all controller instances
type Controllers struct {
	Auth       *AuthController
	Dashboard  *DashboardController
	Session    *SessionController
	TimeLogs   *TimeLogController
	Timesheets *TimesheetController
	Absences   *AbsenceController
	Admin      *AdminController
	ClockDays  *ClockDayController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, opts Options) *Controllers {
	r := responder{dismissAfter: opts.StatusDismissAfter}
	return &Controllers{
		Auth:       NewAuthController(opts.OIDC, opts.LocalAdmin, r),
		Dashboard:  NewDashboardController(services, opts, r),
		Session:    NewSessionController(r),
		TimeLogs:   NewTimeLogController(services, r),
		Timesheets: NewTimesheetController(services, r),
		Absences:   NewAbsenceController(services, r),
		Admin:      NewAdminController(services, r),
		ClockDays:  NewClockDayController(services, r),
	}
}

// responder writes JSON bodies and maps service errors onto status codes and messages
type responder struct {
	dismissAfter time.Duration
}

func (rs responder) json(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (rs responder) status(w http.ResponseWriter, statusCode int, statusType models.StatusType, title, details string) {
	rs.json(w, statusCode, map[string]interface{}{
		"status": models.NewStatus(statusType, title, details, rs.dismissAfter),
	})
}

// fail turns err into a status message. Rejections are 4xx; anything else is logged and 500.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	var violation *models.ScheduleViolation
	var geoErr *geolocation.Error

	switch {
	case errors.As(err, &verr):
		rs.status(w, http.StatusBadRequest, models.StatusError, verr.Title, verr.Details())
	case errors.As(err, &violation):
		rs.status(w, http.StatusForbidden, models.StatusError, models.TitleNotAllowed, violation.Details())
	case errors.As(err, &geoErr):
		rs.status(w, http.StatusBadRequest, models.StatusError, models.TitleLocationError, geoErr.Details())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		rs.status(w, http.StatusInternalServerError, models.StatusError, "Error", "Something went wrong. Please try again.")
	}
}

func (rs responder) badRequest(w http.ResponseWriter, details string) {
	rs.status(w, http.StatusBadRequest, models.StatusError, models.TitleMissingFields, details)
}

// decodeJSON reads a bounded JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// sessionUser returns the UserInfo remembered for this browser, if any
func sessionUser(r *http.Request) models.UserInfo {
	sess := session.GetSession(r)
	if sess == nil {
		return models.UserInfo{}
	}
	user, _ := sess.Get(userctx.SessionUserInfo).(models.UserInfo)
	return user
}

// rememberUser stores a complete UserInfo so later requests may omit it
func rememberUser(r *http.Request, user models.UserInfo) {
	user = user.Normalized()
	if len(user.Validate()) > 0 {
		return
	}
	if sess := session.GetSession(r); sess != nil {
		if err := sess.Set(userctx.SessionUserInfo, user); err != nil {
			slog.Warn("failed to store user info in session", "error", err)
		}
	}
}

// resolveUser prefers what the request carries and falls back to the session
func resolveUser(r *http.Request, given models.UserInfo) models.UserInfo {
	if !given.Normalized().IsEmpty() {
		return given
	}
	return sessionUser(r)
}
