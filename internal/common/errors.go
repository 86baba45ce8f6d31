// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound marks lookups for records that do not exist. Storage
	// wraps it with the record kind and id.
	ErrNotFound = errors.New("not found")

	// ErrNoOwner marks a session opened without an owner identity.
	ErrNoOwner = errors.New("no owner configured")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsUserError reports whether err carries a user-facing message.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}
