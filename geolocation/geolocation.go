// Package geolocation models the position a clock action is taken from.
//
// The server never talks to a GPS itself; a Locator supplies a position (usually
// the one the browser reported) and Acquire enforces the timeout and freshness rules.
package geolocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blogem/intern-timetracker/models"
)

// Failure is the reason a position could not be obtained
type Failure string

const (
	FailureUnsupported         Failure = "unsupported"
	FailurePermissionDenied    Failure = "permission_denied"
	FailurePositionUnavailable Failure = "position_unavailable"
	FailureTimeout             Failure = "timeout"
)

// ParseFailure maps client-reported reasons, including the browser's numeric
// GeolocationPositionError codes, onto a Failure
func ParseFailure(reason string) Failure {
	switch reason {
	case "1", string(FailurePermissionDenied), "PERMISSION_DENIED":
		return FailurePermissionDenied
	case "2", string(FailurePositionUnavailable), "POSITION_UNAVAILABLE":
		return FailurePositionUnavailable
	case "3", string(FailureTimeout), "TIMEOUT":
		return FailureTimeout
	case string(FailureUnsupported):
		return FailureUnsupported
	}
	return FailurePositionUnavailable
}

// DefaultMessage is shown when the locator gave no message of its own
func (f Failure) DefaultMessage() string {
	switch f {
	case FailureUnsupported:
		return "Geolocation is not available in your browser."
	case FailurePermissionDenied:
		return "User denied Geolocation"
	case FailureTimeout:
		return "Timeout expired"
	default:
		return "Position unavailable"
	}
}

// Error is a LocationAcquisitionError. It never aborts a clock action.
type Error struct {
	Reason  Failure
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Reason.DefaultMessage()
	}
	return fmt.Sprintf("geolocation %s: %s", e.Reason, msg)
}

// Details is the message without the reason prefix
func (e *Error) Details() string {
	if e.Message == "" {
		return e.Reason.DefaultMessage()
	}
	return e.Message
}

// Position is one coordinate fix
type Position struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64       // metres
	Age       time.Duration // how old the fix was when reported, by the reporter's own clock; zero if unknown
}

// Location converts the fix into the record's coordinate triple
func (p *Position) Location() *models.Location {
	return &models.Location{Latitude: p.Latitude, Longitude: p.Longitude, Accuracy: p.Accuracy}
}

// Options mirror the browser's PositionOptions
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration // zero means a cached fix is never reused
}

// DefaultTimeout bounds a single acquisition
const DefaultTimeout = 10 * time.Second

// DefaultOptions requests a fresh, high-accuracy fix within ten seconds
func DefaultOptions() Options {
	return Options{HighAccuracy: true, Timeout: DefaultTimeout, MaximumAge: 0}
}

// Locator produces the current position
type Locator interface {
	CurrentPosition(ctx context.Context, opts Options) (*Position, error)
}

// Acquire asks the locator for a position, failing fast after opts.Timeout.
// Every failure is returned as *Error.
func Acquire(ctx context.Context, locator Locator, opts Options) (*Position, error) {
	if locator == nil {
		return nil, &Error{Reason: FailureUnsupported}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	type result struct {
		pos *Position
		err error
	}
	done := make(chan result, 1)
	go func() {
		pos, err := locator.CurrentPosition(ctx, opts)
		done <- result{pos: pos, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, normalize(res.err)
		}
		return checkPosition(res.pos, opts)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{Reason: FailureTimeout}
		}
		return nil, &Error{Reason: FailurePositionUnavailable, Message: ctx.Err().Error()}
	}
}

func normalize(err error) error {
	var geoErr *Error
	if errors.As(err, &geoErr) {
		return geoErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Reason: FailureTimeout}
	}
	return &Error{Reason: FailurePositionUnavailable, Message: err.Error()}
}

// checkPosition rejects missing, out-of-range and stale fixes.
// A fix older than MaximumAge plus the acquisition window cannot belong to this request.
// Age comes from a single clock, so skew between reporter and server does not matter.
func checkPosition(pos *Position, opts Options) (*Position, error) {
	if pos == nil {
		return nil, &Error{Reason: FailurePositionUnavailable}
	}
	if pos.Latitude < -90 || pos.Latitude > 90 || pos.Longitude < -180 || pos.Longitude > 180 || pos.Accuracy < 0 {
		return nil, &Error{Reason: FailurePositionUnavailable, Message: "Position out of range"}
	}
	if pos.Age > opts.MaximumAge+opts.Timeout {
		return nil, &Error{Reason: FailurePositionUnavailable, Message: "Cached position is too old"}
	}
	return pos, nil
}
