package login

import "errors"

var (
	// ErrInvalidCredentials is returned when the recipebook API rejects the
	// email and password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTooManyAttempts is returned when the recipebook API rate limits logins.
	ErrTooManyAttempts = errors.New("too many login attempts, please wait a moment")
)
