package models

import (
	"fmt"
	"strings"
	"time"
)

// Action is the clock event recorded in a TimeLog
type Action string

const (
	ActionIn  Action = "IN"
	ActionOut Action = "OUT"
)

// ParseAction accepts "in"/"out" in any case
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToUpper(strings.TrimSpace(s))) {
	case ActionIn:
		return ActionIn, nil
	case ActionOut:
		return ActionOut, nil
	}
	return "", fmt.Errorf("unknown clock action %q (want IN or OUT)", s)
}

// Location is the coordinate triple captured with a clock action
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

// TimeLog is one clock-in or clock-out event. It is never modified after it is appended.
type TimeLog struct {
	ID string `json:"id"`
	UserInfo
	Action       Action   `json:"action"`
	Timestamp    string   `json:"timestamp"`
	RawTimestamp int64    `json:"rawTimestamp"` // epoch milliseconds
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Accuracy     *float64 `json:"accuracy,omitempty"`
	DeviceID     string   `json:"deviceId"`
	UserAgent    string   `json:"userAgent"`
	Duration     string   `json:"duration,omitempty"` // only on OUT events matched to a same-day IN
}

// SetLocation copies the coordinates onto the log; nil leaves all three unset
func (l *TimeLog) SetLocation(loc *Location) {
	if loc == nil {
		l.Latitude, l.Longitude, l.Accuracy = nil, nil, nil
		return
	}
	lat, lon, acc := loc.Latitude, loc.Longitude, loc.Accuracy
	l.Latitude, l.Longitude, l.Accuracy = &lat, &lon, &acc
}

// HasLocation reports whether coordinates were captured
func (l *TimeLog) HasLocation() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// HasDuration reports whether a check-out duration was derived
func (l *TimeLog) HasDuration() bool {
	return l.Duration != ""
}

// Time returns the raw timestamp in loc
func (l *TimeLog) Time(loc *time.Location) time.Time {
	return FromEpochMillis(l.RawTimestamp, loc)
}

// FormatDuration renders elapsed time as "<hours> hours, <minutes> minutes" using whole minutes
func FormatDuration(elapsed time.Duration) string {
	totalMinutes := int64(elapsed / time.Minute)
	return fmt.Sprintf("%d hours, %d minutes", totalMinutes/60, totalMinutes%60)
}
