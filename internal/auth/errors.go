package auth

import "errors"

var (
	// ErrMissingCredential indicates the email or password field was absent.
	ErrMissingCredential = errors.New("email and password are required")
	// ErrUserNotFound indicates no account matches the presented email.
	ErrUserNotFound = errors.New("no user found")
	// ErrInvalidPassword indicates the password failed hash verification.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrUnauthorized indicates no valid session was resolved for the request.
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden indicates the authenticated identity does not own the resource.
	ErrForbidden = errors.New("not the resource owner")
)
