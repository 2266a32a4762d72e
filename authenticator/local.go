package authenticator

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// LocalAdmin checks a single username against a bcrypt hash taken from configuration
type LocalAdmin struct {
	username     string
	passwordHash []byte
}

// NewLocalAdmin returns nil when either value is empty, which disables local login
func NewLocalAdmin(username, passwordHash string) (*LocalAdmin, error) {
	if username == "" || passwordHash == "" {
		return nil, nil
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err)
	}
	return &LocalAdmin{username: username, passwordHash: []byte(passwordHash)}, nil
}

// Verify returns the admin identity on success and ErrInvalidCredentials otherwise
func (a *LocalAdmin) Verify(username, password string) (string, error) {
	if a == nil {
		return "", ErrLoginDisabled
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	// Always run bcrypt so a wrong username costs the same as a wrong password
	err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || err != nil {
		if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", fmt.Errorf("failed to compare password: %w", err)
		}
		return "", ErrInvalidCredentials
	}
	return a.username, nil
}

// HashPassword produces a value for ADMIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
