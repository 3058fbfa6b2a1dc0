package service

import "errors"

var (
	// ErrNotFound means the todo id does not exist at all.
	ErrNotFound = errors.New("todo not found")
	// ErrForbidden means the todo exists but belongs to another user.
	ErrForbidden = errors.New("access denied to this todo")
	// ErrValidation wraps malformed input (empty title, unknown priority, bad sort key).
	ErrValidation = errors.New("validation failed")
	// ErrInvalidDueDate is kept apart from ErrValidation so a bad date is never
	// silently stored as "no due date".
	ErrInvalidDueDate = errors.New("dueDate: use date (YYYY-MM-DD) or RFC3339 datetime")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)
