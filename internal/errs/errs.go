// Package errs defines the domain error taxonomy shared by services and
// handlers. Store failures are wrapped, never replaced, so callers can log
// the root cause while returning an opaque message.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrCarrierNotFound     = errors.New("carrier not found")
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrIncidentNotFound    = errors.New("incident not found")
	ErrUserNotFound        = errors.New("user not found")

	// ErrSlotFull means the hour window already holds the configured number
	// of appointments; the caller must pick another time.
	ErrSlotFull = errors.New("slot full for this hour, choose another")

	ErrForbidden          = errors.New("insufficient permissions")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateTaxID     = errors.New("tax id already in use")
)

// ValidationError reports a bad field in a request, detected before (or
// instead of) touching the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// Validation builds a *ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
