package controllers

import (
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/userctx"
)

// SessionController exposes the UserInfo remembered for the current browser
type SessionController struct {
	responder
}

// NewSessionController creates a new session controller
func NewSessionController(r responder) *SessionController {
	return &SessionController{responder: r}
}

// Get handles GET /me
func (c *SessionController) Get(w http.ResponseWriter, r *http.Request) {
	c.json(w, http.StatusOK, map[string]interface{}{"user": sessionUser(r)})
}

// Update handles PUT /me
func (c *SessionController) Update(w http.ResponseWriter, r *http.Request) {
	var user models.UserInfo
	if err := decodeJSON(w, r, &user); err != nil {
		c.badRequest(w, err.Error())
		return
	}

	user = user.Normalized()
	if err := user.Check(); err != nil {
		c.fail(w, r, err)
		return
	}

	sess := session.GetSession(r)
	if err := sess.Set(userctx.SessionUserInfo, user); err != nil {
		c.fail(w, r, err)
		return
	}

	c.json(w, http.StatusOK, map[string]interface{}{
		"user":   user,
		"status": models.NewStatus(models.StatusSuccess, "Saved", "Your details have been saved on this device.", c.dismissAfter),
	})
}
