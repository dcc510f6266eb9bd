package auth

import (
	"errors"
	"fmt"
)

// Sentinel errors for authentication and token validation.
var (
	// Login path
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrCredentialNotFound = errors.New("auth: credential not found")

	// Request path
	ErrTokenMalformed = errors.New("auth: token malformed")
	ErrTokenExpired   = errors.New("auth: token expired")

	// Startup
	ErrSigningKeyUnavailable = errors.New("auth: signing key unavailable")
)

// AuthenticationReason explains why a credential check failed.
type AuthenticationReason string

const (
	ReasonNotFound  AuthenticationReason = "NOT_FOUND"
	ReasonBadSecret AuthenticationReason = "BAD_SECRET"
)

// AuthenticationError is returned by CredentialVerifier when the presented
// identifier/secret pair does not authenticate. The reason is for logs only;
// callers facing a client must collapse it to ErrInvalidCredentials.
type AuthenticationError struct {
	Reason     AuthenticationReason
	Identifier string
}

// Error returns the error message.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: reason=%s", e.Reason)
}

// Is reports whether this error matches the target.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrInvalidCredentials
}

// ValidationReason is the externally visible outcome of a failed token check.
type ValidationReason string

const (
	ReasonMalformed ValidationReason = "MALFORMED"
	ReasonExpired   ValidationReason = "EXPIRED"
)

// ValidationError is returned by TokenValidator for any presented token that
// is not valid. Signature failures are reported as ReasonMalformed.
type ValidationError struct {
	Reason ValidationReason
	Cause  error
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("token validation failed: reason=%s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("token validation failed: reason=%s", e.Reason)
}

// Unwrap returns the cause error for errors.Is/As support.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches the target.
func (e *ValidationError) Is(target error) bool {
	switch e.Reason {
	case ReasonExpired:
		return target == ErrTokenExpired
	default:
		return target == ErrTokenMalformed
	}
}

func malformed(cause error) error {
	return &ValidationError{Reason: ReasonMalformed, Cause: cause}
}

func expired(cause error) error {
	return &ValidationError{Reason: ReasonExpired, Cause: cause}
}

// ValidationReasonOf extracts the validation reason from err.
// Returns an empty reason when err is not a *ValidationError.
func ValidationReasonOf(err error) ValidationReason {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Reason
	}
	return ""
}
