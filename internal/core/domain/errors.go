package domain

import (
	"errors"
	"fmt"
)

// Authentication outcomes. Exactly these three reach a login caller:
// credential failures stay generic to avoid user enumeration, the domain
// failure is actionable and surfaced verbatim, and a ban is only revealed
// after the password has been verified.
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrDomainNotRegistered = errors.New("email domain is not registered with any institution")
	ErrAccountBanned       = errors.New("account is banned")
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")

	ErrInstitutionNotFound = errors.New("institution not found")
	ErrDomainTaken         = errors.New("domain already registered or pending approval")
	ErrInstitutionInUse    = errors.New("institution has registered members")

	ErrRequestNotFound = errors.New("institution request not found")
	ErrRequestDecided  = errors.New("institution request already decided")

	// ErrInvalidRecovery is the single generic failure for the recovery
	// completion step; it never says which of email or index code was wrong.
	ErrInvalidRecovery = errors.New("invalid email or index number")

	ErrForbidden = errors.New("access forbidden")
)

// BannedError wraps ErrAccountBanned with the stored ban reason, when one
// exists. Callers match it with errors.Is(err, ErrAccountBanned).
func BannedError(reason string) error {
	if reason == "" {
		return ErrAccountBanned
	}
	return fmt.Errorf("%w: %s", ErrAccountBanned, reason)
}

// ValidationError marks malformed input rejected before any storage access.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}
