package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blogem/intern-timetracker/geolocation"
	"github.com/blogem/intern-timetracker/identity"
	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/repositories"
)

// ClockRequest is one clock-in or clock-out attempt
type ClockRequest struct {
	User    models.UserInfo
	Action  models.Action
	Signals identity.Signals
	Locator geolocation.Locator // nil means the client has no geolocation
}

// ClockResult describes an appended record
type ClockResult struct {
	Log           *models.TimeLog
	LocationError *geolocation.Error // set when the record was appended without a location
	Status        models.StatusMessage
}

// TimeLogService interface defines clock-in/out business logic
type TimeLogService interface {
	// Record validates, gates on the weekday, acquires a location and appends a TimeLog.
	// Rejections are returned as *models.ValidationError or *models.ScheduleViolation
	// and leave the store untouched.
	Record(ctx context.Context, req ClockRequest) (*ClockResult, error)
}

// timeLogService implements TimeLogService interface
type timeLogService struct {
	timeLogRepo repositories.TimeLogRepository
	clockDays   ClockDayService
	opts        Options

	// serializes the duration lookup with the append that depends on it
	mu sync.Mutex
}

// NewTimeLogService creates a new time log service
func NewTimeLogService(timeLogRepo repositories.TimeLogRepository, clockDays ClockDayService, opts Options) TimeLogService {
	return &timeLogService{
		timeLogRepo: timeLogRepo,
		clockDays:   clockDays,
		opts:        opts.withDefaults(),
	}
}

// Record implements the clock-in/out flow
func (s *timeLogService) Record(ctx context.Context, req ClockRequest) (*ClockResult, error) {
	if req.Action != models.ActionIn && req.Action != models.ActionOut {
		return nil, fmt.Errorf("unknown clock action %q", req.Action)
	}

	user := req.User.Normalized()
	if err := user.Check(); err != nil {
		s.opts.Metrics.ClockRejected("identity")
		return nil, err
	}

	// The weekday gate comes first so a rejected day never waits on geolocation
	if err := s.clockDays.CheckClockDay(ctx, s.opts.localNow()); err != nil {
		var violation *models.ScheduleViolation
		if errors.As(err, &violation) {
			s.opts.Metrics.ClockRejected("weekday")
			return nil, err
		}
		return nil, fmt.Errorf("failed to check clock day: %w", err)
	}

	result := &ClockResult{}
	position, err := geolocation.Acquire(ctx, req.Locator, s.opts.Geolocation)
	if err != nil {
		var geoErr *geolocation.Error
		if !errors.As(err, &geoErr) {
			geoErr = &geolocation.Error{Reason: geolocation.FailurePositionUnavailable, Message: err.Error()}
		}
		result.LocationError = geoErr
		s.opts.Metrics.LocationFailed(string(geoErr.Reason))
		slog.Info("recording clock action without location",
			"employee_id", user.EmployeeID, "action", req.Action, "reason", geoErr.Reason)
	}

	log := &models.TimeLog{
		ID:        uuid.NewString(),
		UserInfo:  user,
		Action:    req.Action,
		DeviceID:  identity.DeriveDeviceID(req.Signals),
		UserAgent: req.Signals.UserAgent,
	}
	if position != nil {
		log.SetLocation(position.Location())
	}

	s.mu.Lock()
	now := s.opts.localNow()
	log.Timestamp = models.FormatLocal(now)
	log.RawTimestamp = now.UnixMilli()

	if req.Action == models.ActionOut {
		duration, err := s.durationSinceCheckIn(ctx, user.EmployeeID, now)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		log.Duration = duration
	}

	err = s.timeLogRepo.Append(ctx, log)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to append time log: %w", err)
	}

	s.opts.Metrics.ClockAction(string(log.Action))
	slog.Info("clock action recorded",
		"employee_id", log.EmployeeID, "action", log.Action, "id", log.ID, "has_location", log.HasLocation())

	if s.opts.Publisher != nil {
		published := *log
		publishAsync(ctx, func(ctx context.Context) error {
			return s.opts.Publisher.PublishTimeLog(ctx, &published)
		})
	}

	result.Log = log
	result.Status = s.status(log, now, result.LocationError)
	return result, nil
}

// durationSinceCheckIn finds the latest IN on the same local date as now.
// Equal timestamps resolve to the later insertion.
func (s *timeLogService) durationSinceCheckIn(ctx context.Context, employeeID string, now time.Time) (string, error) {
	logs, err := s.timeLogRepo.GetByEmployee(ctx, employeeID)
	if err != nil {
		return "", fmt.Errorf("failed to get time logs: %w", err)
	}

	var lastCheckIn *models.TimeLog
	for i := range logs {
		log := &logs[i]
		if log.Action != models.ActionIn || !models.SameLocalDate(now, log.Time(s.opts.Location)) {
			continue
		}
		if lastCheckIn == nil || log.RawTimestamp >= lastCheckIn.RawTimestamp {
			lastCheckIn = log
		}
	}
	if lastCheckIn == nil {
		return "", nil
	}

	elapsed := time.Duration(now.UnixMilli()-lastCheckIn.RawTimestamp) * time.Millisecond
	if elapsed <= 0 {
		return "", nil
	}
	return models.FormatDuration(elapsed), nil
}

func (s *timeLogService) status(log *models.TimeLog, now time.Time, locErr *geolocation.Error) models.StatusMessage {
	if locErr != nil {
		details := fmt.Sprintf("Could not get location: %s. Your clock %s at %s was recorded without a location; please enable location services.",
			locErr.Details(), log.Action, models.FormatLocalTime(now))
		return models.NewStatus(models.StatusError, models.TitleLocationError, details, s.opts.StatusDismissAfter)
	}

	details := fmt.Sprintf("Your location has been recorded at %s.", models.FormatLocalTime(now))
	if log.HasDuration() {
		details += fmt.Sprintf(" Today's total time: %s.", log.Duration)
	}
	return models.NewStatus(models.StatusSuccess, "Successfully Clocked "+string(log.Action), details, s.opts.StatusDismissAfter)
}
