package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/repositories"
	"github.com/blogem/intern-timetracker/userctx"
)

const redacted = "[REDACTED]"

// sensitive keys are never written to the audit log
var sensitiveKeys = map[string]bool{
	"password":      true,
	"client_secret": true,
	"code":          true,
	"state":         true,
}

// AuditLogger middleware logs all POST/PUT/DELETE requests.
// The request body is captured up to maxPayload bytes and then restored for the handler.
func AuditLogger(auditRepo repositories.AuditRepository, maxPayload int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only log mutation operations
			if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete {
				payload, fields := capturePayload(r, maxPayload)

				actor := userctx.Actor(r.Context())
				if actor == userctx.Anonymous {
					if id, ok := fields["employeeId"].(string); ok && strings.TrimSpace(id) != "" {
						actor = strings.TrimSpace(id)
					}
				}

				entry := &models.AuditLogEntry{
					Actor:     actor,
					Method:    r.Method,
					Path:      r.URL.Path,
					Payload:   payload,
					UserAgent: r.UserAgent(),
					IPAddress: getIPAddress(r),
				}

				// Log asynchronously to avoid blocking request
				ctx := context.WithoutCancel(r.Context())
				go func() {
					if err := auditRepo.Create(ctx, entry); err != nil {
						slog.Error("failed to create audit log", "path", entry.Path, "error", err)
					}
				}()
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getIPAddress extracts IP address from request, checking X-Forwarded-For first
func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// Take first IP if multiple
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	// Check X-Real-IP header
	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	// Remove port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// capturePayload reads the body (JSON or form encoded), redacts sensitive keys and
// returns it as JSON together with the decoded top-level fields
func capturePayload(r *http.Request, maxPayload int) (string, map[string]interface{}) {
	if r.Body == nil || r.Body == http.NoBody {
		return "", nil
	}

	body, err := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return "", nil
	}

	fields := make(map[string]interface{})
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return "", nil
		}
		for key, v := range values {
			if len(v) == 1 {
				fields[key] = v[0]
			} else {
				fields[key] = v
			}
		}
	} else if err := json.Unmarshal(body, &fields); err != nil {
		// Not an object; keep nothing rather than guess at its contents
		return "", nil
	}

	redactedFields := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if sensitiveKeys[strings.ToLower(key)] {
			value = redacted
		}
		redactedFields[key] = value
	}

	jsonData, err := json.Marshal(redactedFields)
	if err != nil {
		return "", fields
	}
	if maxPayload > 0 && len(jsonData) > maxPayload {
		return string(jsonData[:maxPayload]), fields
	}
	return string(jsonData), fields
}
