package services

import (
	"context"
	"time"

	"github.com/blogem/intern-timetracker/geolocation"
	"github.com/blogem/intern-timetracker/metrics"
	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/repositories"
)

// Publisher mirrors appended records somewhere else. Failures never undo an append.
type Publisher interface {
	PublishTimeLog(ctx context.Context, log *models.TimeLog) error
	PublishAbsence(ctx context.Context, absence *models.AbsenceLog) error
}

// publishAsync mirrors a record off the request path. The request may finish first,
// so the publish keeps the context values but not its cancellation.
func publishAsync(ctx context.Context, publish func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		_ = publish(ctx) // the publisher logs and counts its own failures
	}()
}

// Options configures behaviour shared by the services
type Options struct {
	Location           *time.Location // local time zone for weekdays, dates and timestamps
	Now                func() time.Time
	Geolocation        geolocation.Options
	StatusDismissAfter time.Duration
	AbsenceReasonMax   int
	Publisher          Publisher
	Metrics            *metrics.Metrics
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Geolocation.Timeout <= 0 {
		o.Geolocation = geolocation.DefaultOptions()
	}
	if o.StatusDismissAfter <= 0 {
		o.StatusDismissAfter = models.DefaultStatusDismissAfter
	}
	if o.AbsenceReasonMax <= 0 {
		o.AbsenceReasonMax = models.AbsenceReasonMaxLength
	}
	return o
}

// localNow is the current time in the configured zone
func (o Options) localNow() time.Time {
	return o.Now().In(o.Location)
}

// Services holds all service instances
type Services struct {
	TimeLogs   TimeLogService
	Timesheets TimesheetService
	Absences   AbsenceService
	ClockDays  ClockDayService
	Admin      AdminService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, opts Options) *Services {
	opts = opts.withDefaults()
	clockDays := NewClockDayService(repos.ClockDays, opts)
	return &Services{
		TimeLogs:   NewTimeLogService(repos.TimeLogs, clockDays, opts),
		Timesheets: NewTimesheetService(repos.TimeLogs, opts),
		Absences:   NewAbsenceService(repos.Absences, opts),
		ClockDays:  clockDays,
		Admin:      NewAdminService(repos.TimeLogs, repos.Absences, repos.Audit),
	}
}
