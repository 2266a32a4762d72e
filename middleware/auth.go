package middleware

import (
	"encoding/json"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/userctx"
)

// LoadIdentity copies the session's admin and intern identity into the request context
func LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		if admin, ok := sess.Get(userctx.SessionAdmin).(string); ok && admin != "" {
			ctx = userctx.SetAdmin(ctx, admin)
		}
		if user, ok := sess.Get(userctx.SessionUserInfo).(models.UserInfo); ok && user.EmployeeID != "" {
			ctx = userctx.SetEmployeeID(ctx, user.EmployeeID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests without an admin session. It expects LoadIdentity to run first.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userctx.GetAdmin(r.Context()) == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": models.NewStatus(models.StatusError, models.TitleNotAllowed, "Admin login required.", 0),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
