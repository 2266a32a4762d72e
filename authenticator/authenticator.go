// Package authenticator verifies administrators, either through an OpenID
// Connect provider or a locally configured bcrypt credential.
package authenticator

import (
	"context"
	"errors"
)

var (
	// ErrInvalidCredentials is returned for any username/password mismatch
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrLoginDisabled is returned when no admin credential is configured
	ErrLoginDisabled = errors.New("admin login is not configured")
)

// Token represents an authentication token
type Token struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Expiry       int64
}

// Claims represents user claims from the ID token
type Claims map[string]interface{}

func (c Claims) str(key string) string {
	v, _ := c[key].(string)
	return v
}

// Email returns the email claim, falling back to the subject
func (c Claims) Email() string {
	if email := c.str("email"); email != "" {
		return email
	}
	return c.str("sub")
}

// Name returns the display name claim
func (c Claims) Name() string {
	return c.str("name")
}

// Provider interface abstracts OAuth provider operations
type Provider interface {
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*Token, error)
	GetClaims(ctx context.Context, token *Token) (Claims, error)
}
