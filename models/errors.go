package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail indicates an account already exists for the email.
	ErrDuplicateEmail = errors.New("account already exists for this email")
	// ErrInvalidCredentials is returned for any failed login, without
	// distinguishing unknown email from wrong passcode.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized covers missing or wrong shared secrets and sessions.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrLocked means the entity exists but the customer's tier does not
	// cover the requested content.
	ErrLocked = errors.New("content locked for tier")
	// ErrUnknownTier rejects tier values outside the known enumeration.
	ErrUnknownTier = errors.New("unknown tier")
	// ErrTierDowngrade rejects upgrades that are not strictly upward.
	ErrTierDowngrade = errors.New("target tier is not an upgrade")
)

// ValidationError reports a malformed, missing, or out-of-range input
// field. Always recoverable client-side.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
