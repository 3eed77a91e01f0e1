package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrDuplicateNotification = errors.New("duplicate notification suppressed")
)

// ValidationError names the offending field of a rejected creation attempt.
// Callers must not retry without correcting the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid notification %s: %s", e.Field, e.Reason)
}
