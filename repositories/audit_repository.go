package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blogem/intern-timetracker/models"
)

// AuditRepository handles audit log persistence
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLogEntry) error
	GetRecent(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
}

type sqliteAuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &sqliteAuditRepository{db: db}
}

// Create inserts a new audit log entry
func (r *sqliteAuditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_log (timestamp, actor, method, path, payload, user_agent, ip_address)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	result, err := r.db.ExecContext(
		ctx,
		query,
		entry.Timestamp,
		entry.Actor,
		entry.Method,
		entry.Path,
		entry.Payload,
		entry.UserAgent,
		entry.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// GetRecent returns the newest entries first
func (r *sqliteAuditRepository) GetRecent(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, timestamp, actor, method, path, payload, user_agent, ip_address
		FROM audit_log
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	entries := []models.AuditLogEntry{}
	for rows.Next() {
		var (
			e                            models.AuditLogEntry
			payload, userAgent, ipAddress sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Actor, &e.Method, &e.Path, &payload, &userAgent, &ipAddress); err != nil {
			return nil, fmt.Errorf("failed to scan audit log entry: %w", err)
		}
		e.Payload = payload.String
		e.UserAgent = userAgent.String
		e.IPAddress = ipAddress.String
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
