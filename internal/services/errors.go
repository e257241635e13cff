package services

import "errors"

// Sentinel errors handlers translate into status codes and flash messages.
var (
	// ErrNotFound means the requested user or post does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the acting user is not the author of the post.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// deliberately without distinguishing the two.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers expired, tampered and malformed reset tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUsernameTaken and ErrEmailTaken report registration conflicts.
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
)
