// Package sheets mirrors appended records to the legacy spreadsheet webhook.
//
// The webhook takes a JSON body with a "type" discriminator and answers with
// plain text. A reply containing "added" is the only acknowledgement.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/blogem/intern-timetracker/models"
)

const (
	TypeTimeLog    = "timelog"
	TypeAbsenceLog = "absencelog"

	acknowledgement = "added"
	maxReplyBytes   = 64 << 10
)

// Outcome is reported once per publish attempt
type Outcome func(recordType string, acknowledged bool)

// Client posts records to a webhook URL. A zero URL disables publishing.
type Client struct {
	url        string
	httpClient *http.Client
	onOutcome  Outcome
}

// NewClient creates a webhook client with the given request timeout
func NewClient(url string, timeout time.Duration, onOutcome Outcome) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		onOutcome:  onOutcome,
	}
}

// Enabled reports whether a webhook URL is configured
func (c *Client) Enabled() bool {
	return c != nil && c.url != ""
}

type timeLogPayload struct {
	Type         string   `json:"type"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	EmployeeID   string   `json:"employeeId"`
	DeviceName   string   `json:"deviceName"`
	Action       string   `json:"action"`
	Timestamp    string   `json:"timestamp"`
	RawTimestamp string   `json:"rawTimestamp"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Accuracy     *float64 `json:"accuracy,omitempty"`
	UserAgent    string   `json:"userAgent"`
	Duration     string   `json:"duration,omitempty"`
}

type absencePayload struct {
	Type         string `json:"type"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmployeeID   string `json:"employeeId"`
	Date         string `json:"date"`
	Reason       string `json:"reason"`
	Timestamp    string `json:"timestamp"`
	RawTimestamp string `json:"rawTimestamp"`
}

func isoMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}

// PublishTimeLog sends a clock record
func (c *Client) PublishTimeLog(ctx context.Context, log *models.TimeLog) error {
	return c.publish(ctx, TypeTimeLog, timeLogPayload{
		Type:         TypeTimeLog,
		FirstName:    log.FirstName,
		LastName:     log.LastName,
		EmployeeID:   log.EmployeeID,
		DeviceName:   log.DeviceName,
		Action:       string(log.Action),
		Timestamp:    log.Timestamp,
		RawTimestamp: isoMillis(log.RawTimestamp),
		Latitude:     log.Latitude,
		Longitude:    log.Longitude,
		Accuracy:     log.Accuracy,
		UserAgent:    log.UserAgent,
		Duration:     log.Duration,
	})
}

// PublishAbsence sends an absence record
func (c *Client) PublishAbsence(ctx context.Context, absence *models.AbsenceLog) error {
	return c.publish(ctx, TypeAbsenceLog, absencePayload{
		Type:         TypeAbsenceLog,
		FirstName:    absence.FirstName,
		LastName:     absence.LastName,
		EmployeeID:   absence.EmployeeID,
		Date:         absence.Date,
		Reason:       absence.Reason,
		Timestamp:    absence.Submitted,
		RawTimestamp: isoMillis(absence.SubmittedAt),
	})
}

// publish makes exactly one attempt; there are no retries
func (c *Client) publish(ctx context.Context, recordType string, payload any) error {
	if !c.Enabled() {
		return nil
	}

	err := c.post(ctx, payload)
	if c.onOutcome != nil {
		c.onOutcome(recordType, err == nil)
	}
	if err != nil {
		slog.Warn("spreadsheet webhook did not acknowledge record", "type", recordType, "error", err)
		return err
	}
	slog.Debug("spreadsheet webhook acknowledged record", "type", recordType)
	return nil
}

func (c *Client) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// Apps Script endpoints reject preflighted content types
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post record: %w", err)
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return fmt.Errorf("failed to read reply: %w", err)
	}

	if !strings.Contains(string(reply), acknowledgement) {
		return fmt.Errorf("record not acknowledged (status %d): %s", resp.StatusCode, strings.TrimSpace(string(reply)))
	}
	return nil
}
