package service

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidAdminPassword = errors.New("invalid admin password")

// AdminAuthenticator checks the single shared admin secret.
// When a bcrypt hash is configured it takes precedence over the plain password.
type AdminAuthenticator struct {
	password []byte
	hash     []byte
}

func NewAdminAuthenticator(password, passwordHash string) *AdminAuthenticator {
	return &AdminAuthenticator{password: []byte(password), hash: []byte(passwordHash)}
}

func (a *AdminAuthenticator) Configured() bool {
	return len(a.password) > 0 || len(a.hash) > 0
}

func (a *AdminAuthenticator) Validate(candidate string) error {
	if candidate == "" || !a.Configured() {
		return ErrInvalidAdminPassword
	}
	if len(a.hash) > 0 {
		if bcrypt.CompareHashAndPassword(a.hash, []byte(candidate)) != nil {
			return ErrInvalidAdminPassword
		}
		return nil
	}
	if subtle.ConstantTimeCompare(a.password, []byte(candidate)) != 1 {
		return ErrInvalidAdminPassword
	}
	return nil
}
