package main

import (
	"context"
	"database/sql"
	"encoding/gob"
	"fmt"
	"log/slog"
	"time"

	"github.com/blogem/intern-timetracker/authenticator"
	"github.com/blogem/intern-timetracker/config"
	"github.com/blogem/intern-timetracker/controllers"
	"github.com/blogem/intern-timetracker/database"
	"github.com/blogem/intern-timetracker/geolocation"
	"github.com/blogem/intern-timetracker/metrics"
	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/repositories"
	"github.com/blogem/intern-timetracker/services"
	"github.com/blogem/intern-timetracker/sheets"
)

// clock is the service time source
var clock = time.Now

func init() {
	// Session values must be registered for providers that serialize them
	gob.Register(models.UserInfo{})
}

// app wires the layers together
type app struct {
	cfg         *config.Config
	db          *sql.DB
	repos       *repositories.Repositories
	services    *services.Services
	metrics     *metrics.Metrics
	controllers *controllers.Controllers
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := database.InitializeDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m := metrics.New()
	repos := repositories.NewRepositories(db)

	var publisher services.Publisher
	if cfg.SheetsWebhookURL != "" {
		publisher = sheets.NewClient(cfg.SheetsWebhookURL, cfg.Policy.SheetsRequestTimeout, m.SheetsPublished)
		slog.Info("Mirroring records to spreadsheet webhook")
	}

	geoOpts := geolocation.DefaultOptions()
	geoOpts.Timeout = cfg.Policy.GeolocationTimeout

	srvs := services.NewServices(repos, services.Options{
		Location:           cfg.Location,
		Now:                clock,
		Geolocation:        geoOpts,
		StatusDismissAfter: cfg.Policy.StatusDismissAfter,
		AbsenceReasonMax:   cfg.Policy.AbsenceReasonMaxLength,
		Publisher:          publisher,
		Metrics:            m,
	})

	ctrlOpts := controllers.Options{StatusDismissAfter: cfg.Policy.StatusDismissAfter}
	if cfg.OIDC.Enabled() {
		provider, err := authenticator.NewOpenIDProvider(ctx, authenticator.OpenIDConfig{
			Domain:       cfg.OIDC.Domain,
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			CallbackURL:  cfg.OIDC.CallbackURL,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize OIDC provider: %w", err)
		}
		ctrlOpts.OIDC = provider
	}
	local, err := authenticator.NewLocalAdmin(cfg.Admin.Username, cfg.Admin.PasswordHash)
	if err != nil {
		db.Close()
		return nil, err
	}
	ctrlOpts.LocalAdmin = local
	if ctrlOpts.OIDC == nil && local == nil {
		slog.Warn("No admin login configured; the admin review is unreachable")
	}

	return &app{
		cfg:         cfg,
		db:          db,
		repos:       repos,
		services:    srvs,
		metrics:     m,
		controllers: controllers.NewControllers(srvs, ctrlOpts),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}
