package models

import "time"

// AuditLogEntry represents a single HTTP mutation event
type AuditLogEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"` // admin email, employee id, or "anonymous"
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Payload   string    `json:"payload"`
	UserAgent string    `json:"userAgent"`
	IPAddress string    `json:"ipAddress"`
}
