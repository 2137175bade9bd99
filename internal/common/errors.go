// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Data source errors.
	ErrNotFound          = errors.New("not found")
	ErrSourceUnavailable = errors.New("event log unavailable")

	// External store errors.
	ErrStoreConnection = errors.New("store connection failed")
	ErrRateLimit       = errors.New("rate limit exceeded")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user,
// typically carrying remediation text.
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

// FormatUserError renders an error for terminal display. A UserError
// shows its remediation message first; anything else is shown as is.
func FormatUserError(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		if userErr.Err != nil {
			return fmt.Sprintf("%s\n  (%v)", userErr.UserMessage, userErr.Err)
		}
		return userErr.UserMessage
	}
	return err.Error()
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
