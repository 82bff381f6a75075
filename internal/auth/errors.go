package auth

import "errors"

var (
	// ErrInvalidToken is returned for any token that fails verification.
	// Callers treat it as "anonymous" and never surface the underlying reason.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthorized means the request needs an authenticated principal.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden means the principal lacks the permission a route requires.
	ErrForbidden = errors.New("access denied")
)
