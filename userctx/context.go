// Package userctx carries the acting identity through request contexts and
// names the session keys that persist it between requests.
package userctx

import "context"

// Context key type
type contextKey string

const (
	adminKey    contextKey = "admin"
	employeeKey contextKey = "employee_id"
)

// Session keys
const (
	SessionAdmin    = "admin"
	SessionUserInfo = "user_info"
	SessionState    = "oauth_state"
)

// Anonymous is reported when nobody is identified
const Anonymous = "anonymous"

// SetAdmin marks the request as made by an authenticated admin
func SetAdmin(ctx context.Context, admin string) context.Context {
	return context.WithValue(ctx, adminKey, admin)
}

// GetAdmin returns the admin identity, or "" for non-admin requests
func GetAdmin(ctx context.Context) string {
	admin, _ := ctx.Value(adminKey).(string)
	return admin
}

// SetEmployeeID records which intern the request acts for
func SetEmployeeID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, employeeKey, id)
}

// GetEmployeeID retrieves the intern's employee ID from the request context
func GetEmployeeID(ctx context.Context) string {
	id, _ := ctx.Value(employeeKey).(string)
	return id
}

// Actor names whoever is acting: the admin if any, then the intern, else Anonymous
func Actor(ctx context.Context) string {
	if admin := GetAdmin(ctx); admin != "" {
		return admin
	}
	if id := GetEmployeeID(ctx); id != "" {
		return id
	}
	return Anonymous
}
