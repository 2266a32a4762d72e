package main

import (
	"fmt"
	"net/http"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	appmiddleware "github.com/blogem/intern-timetracker/middleware"
)

// setupRouter configures all routes
func setupRouter(a *app) (*chi.Mux, error) {
	ctrl := a.controllers
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second)) // 60 second timeout for OAuth callbacks
	r.Use(middleware.Compress(5))
	r.Use(appmiddleware.Instrument(a.metrics))

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "timetracker_session",
		Secure:         a.cfg.UseHTTPS, // Set to true when USE_HTTPS=true (production)
		Gclifetime:     3600 * 24,
		Maxlifetime:    3600 * 24 * 30, // the browser remembers who the intern is
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)
	r.Use(appmiddleware.LoadIdentity)
	r.Use(appmiddleware.AuditLogger(a.repos.Audit, a.cfg.Policy.AuditPayloadMaxBytes))

	// PUBLIC ROUTES (no authentication required)
	r.Get("/", ctrl.Dashboard.Index)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "%s", "version": "%s"}`, appName, Version)
	})
	r.Handle("/metrics", a.metrics.Handler())

	r.Get("/me", ctrl.Session.Get)
	r.Put("/me", ctrl.Session.Update)

	r.Post("/time/{action}", ctrl.TimeLogs.Clock)

	r.Route("/timesheet/{employeeID}", func(r chi.Router) {
		r.Get("/", ctrl.Timesheets.Show)
		r.Get("/pdf", ctrl.Timesheets.PDF)
	})

	r.Route("/absences", func(r chi.Router) {
		r.Get("/", ctrl.Absences.List)
		r.Post("/", ctrl.Absences.Create)
	})

	// Admin login
	r.Get("/admin/login", ctrl.Auth.Login)
	r.Post("/admin/login", ctrl.Auth.LocalLogin)
	r.Get("/admin/callback", ctrl.Auth.Callback)
	r.Post("/admin/logout", ctrl.Auth.Logout)

	// PROTECTED ROUTES (admin session required)
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.RequireAdmin)

		r.Get("/admin", ctrl.Admin.Index)
		r.Get("/admin/export.xlsx", ctrl.Admin.Export)
		r.Get("/admin/audit", ctrl.Admin.Audit)
		r.Get("/admin/clock-days", ctrl.ClockDays.Index)
		r.Post("/admin/clock-days", ctrl.ClockDays.Update)
	})

	return r, nil
}
